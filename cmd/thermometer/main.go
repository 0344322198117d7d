package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	gitSHA  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "thermometer",
		Usage:   "Track code quality across a repository's git history",
		Version: version,
		Description: `Thermometer mines a git repository commit by commit and measures the
source files each commit touches: cyclomatic complexity, coupling,
maintainability index, lines of code and code smells. The result is a
timeline showing how the code's health evolved.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"THERMOMETER_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging on stderr",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				EnvVars: []string{"NO_COLOR"},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			inspectCmd(),
			configCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
