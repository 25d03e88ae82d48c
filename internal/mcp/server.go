package mcp

import (
	"context"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/reviewlens/reviewlens/internal/store"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
	Database     *store.Database
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
	DB      *store.Database
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		"reviewlens-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	toolDefinitions := map[string]mcp.Tool{
		"analyze_pr": mcp.NewTool("analyze_pr",
			mcp.WithDescription("Analyze the review comments on a pull request and return a per-reviewer Markdown report with knowledge insights, action items, mentoring guidance, style insights, and suggested replies."),
			mcp.WithString("pr_url",
				mcp.Required(),
				mcp.Description("Pull request web URL (e.g., 'https://github.com/acme/widgets/pull/42')"),
			),
			mcp.WithBoolean("write_file",
				mcp.Description("Also write the report to the configured output directory (default: false)"),
			),
		),
		"list_reports": mcp.NewTool("list_reports",
			mcp.WithDescription("List previously generated review reports, newest first. Requires a configured database."),
			mcp.WithString("repository",
				mcp.Description("Optional: filter by owner/name repository"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of reports to return (default: 20)"),
			),
		),
	}

	for name, adapter := range cfg.ToolAdapters {
		tool := toolDefinitions[name]
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return adapter.ToolAdapter(ctx, req)
		})
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
		DB:      cfg.Database,
	}
}

func (s *Server) Close() {
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}
}
