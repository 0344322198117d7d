package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/thermometer/internal/output"
	"github.com/panbanda/thermometer/pkg/analyzer/commit"
)

// TimelineInput is the input of the analyze_timeline tool.
type TimelineInput struct {
	Repository string `json:"repository,omitempty" jsonschema:"Local path, git URL, or owner/repo shorthand. Defaults to the current directory."`
	Since      string `json:"since,omitempty" jsonschema:"Only include commits on or after this ISO date (YYYY-MM-DD or RFC 3339)."`
	Until      string `json:"until,omitempty" jsonschema:"Only include commits on or before this ISO date (YYYY-MM-DD or RFC 3339)."`
	Format     string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

func getRepository(input TimelineInput) string {
	if input.Repository == "" {
		return "."
	}
	return input.Repository
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(r output.Renderable, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(r.RenderData(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		var buf bytes.Buffer
		if err := r.RenderMarkdown(&buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return output.MarshalTOON(r.RenderData())
	}
}

func toolResult(r output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(r, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleAnalyzeTimeline(ctx context.Context, req *mcp.CallToolRequest, input TimelineInput) (*mcp.CallToolResult, any, error) {
	since, err := commit.ParseBound(input.Since)
	if err != nil {
		return toolError(fmt.Sprintf("since: %v", err))
	}
	until, err := commit.ParseBound(input.Until)
	if err != nil {
		return toolError(fmt.Sprintf("until: %v", err))
	}
	if since != nil && until != nil && since.After(*until) {
		return toolError("since must not be after until")
	}

	repo := getRepository(input)
	s.logger.Debug("analyze_timeline", "repo", repo, "since", input.Since, "until", input.Until)

	timeline := s.miner.Mine(ctx, repo, since, until)
	return toolResult(timeline, getFormat(input.Format))
}
