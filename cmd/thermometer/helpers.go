package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/thermometer/internal/output"
	"github.com/panbanda/thermometer/pkg/analyzer/commit"
	"github.com/panbanda/thermometer/pkg/analyzer/complexity"
	"github.com/panbanda/thermometer/pkg/analyzer/coupling"
	"github.com/panbanda/thermometer/pkg/analyzer/metrics"
	"github.com/panbanda/thermometer/pkg/analyzer/smells"
	"github.com/panbanda/thermometer/pkg/config"
)

var errUsage = errors.New("usage")

// formatFlag and outputFlag are shared by the commands that print results.
func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: " + strings.Join(output.Formats(), ", ") + " (default from config, else text)",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write output to file",
	}
}

// newLogger writes text logs to w at Warn, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loggerFor(c *cli.Context) *slog.Logger {
	return newLogger(c.App.ErrWriter, c.Bool("verbose"))
}

// loadConfig honors the global --config flag and falls back to the search path.
func loadConfig(c *cli.Context) (*config.LoadResult, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	return config.LoadConfig(opts...)
}

// resolveFormat picks the --format flag over the configured default.
func resolveFormat(c *cli.Context, cfg *config.Config) (output.Format, error) {
	name := cfg.Output.Format
	if c.IsSet("format") {
		name = c.String("format")
	}
	if !output.IsValidFormat(name) {
		return "", fmt.Errorf("%w: unknown format %q (want one of %s)", errUsage, name, strings.Join(output.Formats(), ", "))
	}
	return output.ParseFormat(name), nil
}

// newFormatter writes to --output when given, otherwise to the app's writer.
func newFormatter(c *cli.Context, format output.Format, colored bool) (*output.Formatter, error) {
	if path := c.String("output"); path != "" {
		return output.NewFormatter(format, path, colored)
	}
	return output.NewWriterFormatter(format, c.App.Writer, colored), nil
}

// parseBounds validates the date range before any mining starts.
func parseBounds(since, until string) (*time.Time, *time.Time, error) {
	from, err := commit.ParseBound(since)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: --since: %w", errUsage, err)
	}
	to, err := commit.ParseBound(until)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: --until: %w", errUsage, err)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("%w: --since %s is after --until %s", errUsage, since, until)
	}
	return from, to, nil
}

func newExtractor(cfg *config.Config, logger *slog.Logger) *metrics.Extractor {
	return metrics.New(
		metrics.WithComplexityAnalyzer(complexity.New(complexity.WithMaxFileSize(cfg.Analysis.MaxFileSize))),
		metrics.WithCouplingEstimator(coupling.New(coupling.WithStdlibModules(cfg.Coupling.StdlibModules))),
		metrics.WithSmellDetector(newSmellDetector(cfg)),
		metrics.WithLogger(logger),
	)
}

func newSmellDetector(cfg *config.Config) *smells.Detector {
	t := smells.DefaultThresholds()
	ct := cfg.Smells.Thresholds
	t.ComplexityWarning = ct.ComplexityWarning
	t.ComplexityCritical = ct.ComplexityCritical
	t.LengthWarning = ct.LengthWarning
	t.LengthCritical = ct.LengthCritical
	t.MaxParameters = ct.MaxParameters
	t.NestingWarning = ct.NestingWarning
	t.NestingCritical = ct.NestingCritical

	return smells.New(
		smells.WithThresholds(t),
		smells.WithGenericNames(cfg.Smells.GenericNames),
		smells.WithCommentMarkers(cfg.Smells.CommentMarkers),
		smells.WithBlockOpeners(cfg.Smells.BlockOpeners),
		smells.WithIndentWidth(cfg.Smells.IndentWidth),
	)
}
