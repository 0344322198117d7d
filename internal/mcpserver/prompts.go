package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptFrontmatter is the YAML header of a prompt file.
type promptFrontmatter struct {
	Description string `yaml:"description"`
}

type promptSpec struct {
	name        string
	description string
	body        string
}

// loadPrompts reads every embedded prompt, sorted by name.
func loadPrompts() ([]promptSpec, error) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, err
	}

	var specs []promptSpec
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			return nil, err
		}
		description, body := parseFrontmatter(content)
		specs = append(specs, promptSpec{
			name:        strings.TrimSuffix(entry.Name(), ".md"),
			description: description,
			body:        body,
		})
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].name < specs[j].name })
	return specs, nil
}

func (s *Server) registerPrompts() {
	specs, err := loadPrompts()
	if err != nil {
		s.logger.Warn("failed to load prompts", "error", err)
		return
	}
	for _, spec := range specs {
		s.server.AddPrompt(&mcp.Prompt{
			Name:        spec.name,
			Description: spec.description,
		}, promptHandler(spec))
	}
}

// parseFrontmatter splits a leading "---" YAML block from the prompt body.
// Content without a well-formed block is returned whole as the body.
func parseFrontmatter(content []byte) (description string, body string) {
	rest, ok := bytes.CutPrefix(content, []byte("---\n"))
	if !ok {
		return "", string(content)
	}

	header, tail, ok := bytes.Cut(rest, []byte("\n---\n"))
	if !ok {
		return "", string(content)
	}

	var fm promptFrontmatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return "", string(content)
	}
	return fm.Description, strings.TrimPrefix(string(tail), "\n")
}

func promptHandler(spec promptSpec) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: spec.description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: spec.body},
				},
			},
		}, nil
	}
}
