// Package metrics turns one file's source text into a models.FileMetrics record
// by combining the complexity analyzer with the coupling, smell and
// maintainability heuristics.
package metrics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/panbanda/thermometer/pkg/analyzer/complexity"
	"github.com/panbanda/thermometer/pkg/analyzer/coupling"
	"github.com/panbanda/thermometer/pkg/analyzer/maintainability"
	"github.com/panbanda/thermometer/pkg/analyzer/smells"
	"github.com/panbanda/thermometer/pkg/models"
)

// ErrExtraction wraps every failure to measure a file.
var ErrExtraction = errors.New("metric extraction failed")

// ComplexityAnalyzer produces per-function complexity and file size measures.
type ComplexityAnalyzer interface {
	Analyze(source []byte, filename string) (*complexity.Result, error)
}

// Extractor computes FileMetrics. It is safe for concurrent use when its
// collaborators are.
type Extractor struct {
	complexity ComplexityAnalyzer
	coupling   *coupling.Estimator
	smells     *smells.Detector
	logger     *slog.Logger
}

// Option is a functional option for configuring Extractor.
type Option func(*Extractor)

// WithComplexityAnalyzer replaces the tree-sitter complexity analyzer.
func WithComplexityAnalyzer(a ComplexityAnalyzer) Option {
	return func(e *Extractor) {
		e.complexity = a
	}
}

// WithCouplingEstimator sets the coupling estimator.
func WithCouplingEstimator(c *coupling.Estimator) Option {
	return func(e *Extractor) {
		e.coupling = c
	}
}

// WithSmellDetector sets the smell detector.
func WithSmellDetector(d *smells.Detector) Option {
	return func(e *Extractor) {
		e.smells = d
	}
}

// WithLogger sets the logger used for contained failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an extractor with default collaborators.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		complexity: complexity.New(),
		coupling:   coupling.New(),
		smells:     smells.New(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract measures a file and never fails: on any error it logs the cause and
// returns models.NeutralFileMetrics().
func (e *Extractor) Extract(source []byte, filename string) models.FileMetrics {
	m, err := e.Analyze(source, filename)
	if err != nil {
		e.logger.Warn("metric extraction failed", "file", filename, "error", err)
		return models.NeutralFileMetrics()
	}
	return m
}

// Analyze measures a file. Errors, including panics raised while analyzing,
// are returned wrapped in ErrExtraction.
func (e *Extractor) Analyze(source []byte, filename string) (m models.FileMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = models.FileMetrics{}
			err = fmt.Errorf("%w: %s: panic: %v", ErrExtraction, filename, r)
		}
	}()

	result, err := e.complexity.Analyze(source, filename)
	if err != nil {
		return models.FileMetrics{}, fmt.Errorf("%w: %s: %w", ErrExtraction, filename, err)
	}
	if result == nil {
		return models.FileMetrics{}, fmt.Errorf("%w: %s: no analysis result", ErrExtraction, filename)
	}

	text := string(source)

	loc := strings.Count(text, "\n")
	if result.NonCommentLines != nil {
		loc = *result.NonCommentLines
	}
	tokens := loc
	if result.TokenCount != nil {
		tokens = *result.TokenCount
	}

	totalCC := result.TotalCyclomatic()
	functions := make([]smells.Function, 0, len(result.Functions))
	for _, fn := range result.Functions {
		functions = append(functions, smells.Function{
			CyclomaticComplexity: fn.CyclomaticComplexity,
			Length:               fn.Length,
			ParameterCount:       fn.ParameterCount,
		})
	}

	m = models.FileMetrics{
		CyclomaticComplexity: totalCC,
		Coupling:             round2(e.coupling.Estimate(text)),
		MaintainabilityIndex: maintainability.Score(totalCC, loc, float64(tokens)),
		LinesOfCode:          loc,
		CodeSmells:           e.smells.Detect(functions, text),
		FunctionsCount:       len(functions),
	}
	if m.FunctionsCount > 0 {
		m.AvgFunctionLength = round2(float64(loc) / float64(m.FunctionsCount))
	}

	return m, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
