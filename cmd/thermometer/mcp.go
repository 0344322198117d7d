package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/thermometer/internal/mcpserver"
	"github.com/panbanda/thermometer/internal/vcs"
	"github.com/panbanda/thermometer/pkg/analyzer/commit"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the commit
timeline as a tool LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "thermometer": {
        "command": "thermometer",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_timeline   Per-commit complexity, coupling, maintainability and smells

Available prompts:
  - quality-trend-review
  - release-window-check`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config
	logger := loggerFor(c)

	history := vcs.NewHistoryReader(
		vcs.WithSkipMerges(cfg.Analysis.SkipMerges),
		vcs.WithLogger(logger),
	)
	miner := commit.New(history, newExtractor(cfg, logger),
		commit.WithExtension(cfg.Analysis.Extension),
		commit.WithWorkers(cfg.Analysis.Workers),
		commit.WithLogger(logger),
	)

	server := mcpserver.NewServer(version, miner, mcpserver.WithLogger(logger))
	return server.Run(c.Context)
}
