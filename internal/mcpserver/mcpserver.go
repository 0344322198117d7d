// Package mcpserver exposes the commit timeline over the Model Context Protocol.
package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/thermometer/pkg/analyzer/commit"
)

// TimelineMiner builds a timeline for a repository locator.
type TimelineMiner interface {
	Mine(ctx context.Context, locator string, since, until *time.Time) *commit.Timeline
}

// Server wraps the MCP server and registers the thermometer tools.
type Server struct {
	server *mcp.Server
	miner  TimelineMiner
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for tool diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(version string, miner TimelineMiner, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "thermometer",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		miner:  miner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over the given transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_timeline",
		Description: describeTimeline(),
	}, s.handleAnalyzeTimeline)
}
