package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/thermometer/internal/export"
	"github.com/panbanda/thermometer/internal/progress"
	"github.com/panbanda/thermometer/internal/vcs"
	"github.com/panbanda/thermometer/pkg/analyzer/commit"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Build the per-commit quality timeline of a repository",
		ArgsUsage: "[repository]",
		Description: `Walks the commit history of a local repository, a git URL, or a GitHub
owner/repo shorthand and reports metrics for the source files each commit
modified. Remote repositories are cloned into a temporary directory.

Flags go before the repository argument:
  thermometer analyze --since 2024-01-01 --format json .`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "since",
				Usage: "Only include commits on or after this date (YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC 3339)",
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "Only include commits on or before this date",
			},
			formatFlag(),
			outputFlag(),
			&cli.StringFlag{
				Name:  "parquet",
				Usage: "Also write the timeline to a Parquet file",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Commits measured in parallel (default from config)",
			},
			&cli.StringFlag{
				Name:  "ext",
				Usage: "Source file extension to measure (default from config, else .py)",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("%w: analyze takes at most one repository", errUsage)
	}
	repo := c.Args().First()
	if repo == "" {
		repo = "."
	}

	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	since, until, err := parseBounds(c.String("since"), c.String("until"))
	if err != nil {
		return err
	}

	format, err := resolveFormat(c, cfg)
	if err != nil {
		return err
	}

	workers := cfg.Analysis.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	if workers < 1 {
		return fmt.Errorf("%w: --workers must be at least 1 (got %d)", errUsage, workers)
	}

	ext := cfg.Analysis.Extension
	if c.IsSet("ext") {
		ext = c.String("ext")
	}

	logger := loggerFor(c)

	historyOpts := []vcs.HistoryOption{
		vcs.WithSkipMerges(cfg.Analysis.SkipMerges),
		vcs.WithLogger(logger),
	}
	if c.Bool("verbose") {
		historyOpts = append(historyOpts, vcs.WithCloneProgress(c.App.ErrWriter))
	}
	history := vcs.NewHistoryReader(historyOpts...)

	tracker := progress.NewSpinner("Mining commits...", progress.WithWriter(c.App.ErrWriter))
	miner := commit.New(history, newExtractor(cfg, logger),
		commit.WithExtension(ext),
		commit.WithWorkers(workers),
		commit.WithProgress(tracker),
		commit.WithLogger(logger),
	)

	timeline := miner.Mine(c.Context, repo, since, until)
	if err := c.Context.Err(); err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	if path := c.String("parquet"); path != "" {
		if err := export.WriteTimeline(timeline, path); err != nil {
			return err
		}
		fmt.Fprintln(c.App.ErrWriter, color.GreenString("Timeline written to %s (%d commits)", path, timeline.Len()))
	}

	formatter, err := newFormatter(c, format, cfg.Output.Color && !color.NoColor)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(timeline)
}
