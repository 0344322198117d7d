package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/thermometer/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a thermometer configuration file for syntax errors and invalid values.

Examples:
  thermometer config validate                          # Validates default config locations
  thermometer -c thermometer.toml config validate      # Validates specific file`,
				Action: runConfigValidateCmd,
			},
			{
				Name:   "show",
				Usage:  "Show the effective configuration as TOML",
				Action: runConfigShowCmd,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON Schema config files are validated against",
				Action: runConfigSchemaCmd,
			},
		},
	}
}

func runConfigValidateCmd(c *cli.Context) error {
	result, err := loadConfig(c)
	if err != nil {
		fmt.Fprintln(c.App.Writer, color.RedString("Configuration validation failed:"))
		fmt.Fprintf(c.App.Writer, "  - %s\n", err)
		return err
	}

	if result.Source != "" {
		fmt.Fprintln(c.App.Writer, color.GreenString("Configuration valid: %s", result.Source))
	} else {
		fmt.Fprintln(c.App.Writer, color.YellowString("No config file found. Default configuration is valid."))
	}
	return nil
}

func runConfigShowCmd(c *cli.Context) error {
	result, err := loadConfig(c)
	if err != nil {
		return err
	}

	if result.Source != "" {
		fmt.Fprintf(c.App.Writer, "# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Fprintln(c.App.Writer, "# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(*result.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = c.App.Writer.Write(content)
	return err
}

func runConfigSchemaCmd(c *cli.Context) error {
	_, err := c.App.Writer.Write(config.Schema())
	return err
}
