package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/thermometer/internal/output"
	"github.com/panbanda/thermometer/pkg/analyzer/maintainability"
	"github.com/panbanda/thermometer/pkg/models"
)

// fileReport is one inspected file in structured output.
type fileReport struct {
	File string `json:"file" toon:"file"`
	models.FileMetrics
	Level string `json:"level" toon:"level"`
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Measure individual source files in the working tree",
		ArgsUsage: "file...",
		Description: `Reports the same metrics the timeline aggregates, for files on disk.
Files that cannot be measured are reported with neutral values
(all zero, maintainability 100) and a warning on stderr.`,
		Flags: []cli.Flag{
			formatFlag(),
			outputFlag(),
		},
		Action: runInspectCmd,
	}
}

func runInspectCmd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("%w: inspect needs at least one file", errUsage)
	}

	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	format, err := resolveFormat(c, cfg)
	if err != nil {
		return err
	}

	extractor := newExtractor(cfg, loggerFor(c))

	reports := make([]fileReport, 0, c.Args().Len())
	var rows [][]string
	for _, path := range c.Args().Slice() {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		m := extractor.Extract(source, filepath.Base(path))
		level := maintainability.LevelFor(m.MaintainabilityIndex)
		reports = append(reports, fileReport{File: path, FileMetrics: m, Level: level.Label})
		rows = append(rows, []string{
			path,
			fmt.Sprintf("%d", m.CyclomaticComplexity),
			fmt.Sprintf("%.1f", m.Coupling),
			fmt.Sprintf("%.1f", m.MaintainabilityIndex),
			level.Label,
			fmt.Sprintf("%d", m.LinesOfCode),
			fmt.Sprintf("%d", m.CodeSmells),
			fmt.Sprintf("%d", m.FunctionsCount),
			fmt.Sprintf("%.1f", m.AvgFunctionLength),
		})
	}

	formatter, err := newFormatter(c, format, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		"File Metrics",
		[]string{"File", "CC", "Coupling", "MI", "Level", "LOC", "Smells", "Functions", "Avg Len"},
		rows,
		nil,
		reports,
	)
	return formatter.Output(table)
}
