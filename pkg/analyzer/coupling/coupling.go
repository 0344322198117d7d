// Package coupling estimates how much a source file leans on code outside itself.
//
// The estimate is a 0-10 score built from three surface-level signals over raw
// text: distinct external imports, attribute-call density and the number of
// locally declared names that are invoked repeatedly.
package coupling

import (
	"math"
	"regexp"
	"strings"
)

// MaxScore is the upper bound of every estimate.
const MaxScore = 10.0

const (
	importWeight   = 0.5
	crossRefWeight = 0.3
	internalWeight = 0.2

	crossRefDivisor = 10.0
	crossRefCap     = 5.0
	internalDivisor = 5.0
	internalCap     = 3.0
)

// DefaultStdlibModules lists module names never counted as external imports.
func DefaultStdlibModules() []string {
	return []string{
		"os", "sys", "re", "json", "time", "datetime", "collections",
		"itertools", "functools", "math", "random", "logging", "unittest",
	}
}

var (
	importPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^import\s+(\w+)`),
		regexp.MustCompile(`(?m)^from\s+(\w+)\s+import`),
		regexp.MustCompile(`(?m)^\s+import\s+(\w+)`),
		regexp.MustCompile(`(?m)^\s+from\s+(\w+)\s+import`),
	}
	crossRefPattern    = regexp.MustCompile(`(\w+)\.(\w+)\s*\(`)
	declarationPattern = regexp.MustCompile(`(?:class|def)\s+(\w+)`)
	callPattern        = regexp.MustCompile(`(\w+)\s*\(`)
)

// Estimator scores coupling. It holds only immutable configuration and is safe
// for concurrent use.
type Estimator struct {
	stdlib map[string]struct{}
}

// Option is a functional option for configuring Estimator.
type Option func(*Estimator)

// WithStdlibModules replaces the allow-list of standard module names.
func WithStdlibModules(modules []string) Option {
	return func(e *Estimator) {
		e.stdlib = make(map[string]struct{}, len(modules))
		for _, m := range modules {
			e.stdlib[m] = struct{}{}
		}
	}
}

// New creates an estimator using DefaultStdlibModules unless overridden.
func New(opts ...Option) *Estimator {
	e := &Estimator{}
	WithStdlibModules(DefaultStdlibModules())(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Breakdown holds the three sub-scores behind an estimate.
type Breakdown struct {
	ExternalImports      []string `json:"external_imports"`
	CrossReferences      int      `json:"cross_references"`
	InternalDependencies int      `json:"internal_dependencies"`
	Score                float64  `json:"score"`
}

// Estimate returns the coupling score of source, in [0, MaxScore].
func (e *Estimator) Estimate(source string) float64 {
	return e.Breakdown(source).Score
}

// Breakdown computes the estimate together with the signals it came from.
func (e *Estimator) Breakdown(source string) Breakdown {
	b := Breakdown{
		ExternalImports:      e.externalImports(source),
		CrossReferences:      len(crossRefPattern.FindAllStringIndex(source, -1)),
		InternalDependencies: internalDependencies(source),
	}

	crossRefs := math.Min(float64(b.CrossReferences)/crossRefDivisor, crossRefCap)
	internal := math.Min(float64(b.InternalDependencies)/internalDivisor, internalCap)

	score := importWeight*float64(len(b.ExternalImports)) +
		crossRefWeight*crossRefs +
		internalWeight*internal
	b.Score = math.Min(MaxScore, score)

	return b
}

// externalImports returns the distinct first segments of imported names that are
// neither standard modules nor private, in order of first appearance.
func (e *Estimator) externalImports(source string) []string {
	seen := make(map[string]struct{})
	imports := make([]string, 0)

	for _, pattern := range importPatterns {
		for _, match := range pattern.FindAllStringSubmatch(source, -1) {
			name := match[1]
			if strings.HasPrefix(name, "_") {
				continue
			}
			if _, std := e.stdlib[name]; std {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			imports = append(imports, name)
		}
	}

	return imports
}

// internalDependencies counts declared class and function names that are
// invoked more than once.
func internalDependencies(source string) int {
	declared := make(map[string]struct{})
	for _, match := range declarationPattern.FindAllStringSubmatch(source, -1) {
		declared[match[1]] = struct{}{}
	}

	if len(declared) == 0 {
		return 0
	}

	calls := make(map[string]int)
	for _, match := range callPattern.FindAllStringSubmatch(source, -1) {
		calls[match[1]]++
	}

	var hits int
	for name := range declared {
		if calls[name] > 1 {
			hits++
		}
	}
	return hits
}
