package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gridbook/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for Gridbook.
// It exposes dataset and grid tools so AI agents can inspect datasets,
// read the currently visible data, and trigger CSV exports.
type Server struct {
	mcp     *server.MCPServer
	emitter service.EventEmitter

	// Services (injected from app layer)
	datasets   *service.DatasetService
	viewStates *service.ViewStateService
	exports    *service.ExportService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter    service.EventEmitter
	Datasets   *service.DatasetService
	ViewStates *service.ViewStateService
	Exports    *service.ExportService
}

// New creates and configures a new MCP server with all tools.
func New(ctx context.Context, deps Deps) *Server {
	s := &Server{
		emitter:    deps.Emitter,
		datasets:   deps.Datasets,
		viewStates: deps.ViewStates,
		exports:    deps.Exports,
	}

	s.mcp = server.NewMCPServer(
		"gridbook-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerDatasetTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
