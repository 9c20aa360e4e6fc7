// Package mcpserver exposes the asset reconciliation pipeline as MCP
// (Model Context Protocol) tools over stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/banikojp/remove-unuse-assets/internal/discover"
	"github.com/banikojp/remove-unuse-assets/internal/reconcile"
)

// Server wraps the MCP server with reconciliation tools.
type Server struct {
	mcp    *server.MCPServer
	ext    string
	suffix string
	logger *slog.Logger
}

// New creates an MCP server with all tools registered. ext is the Markdown
// extension (e.g. ".md"), suffix the asset directory suffix (e.g. ".assets").
func New(ext, suffix string, logger *slog.Logger) *Server {
	s := &Server{ext: ext, suffix: suffix, logger: logger}

	s.mcp = server.NewMCPServer(
		"rmassets",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_assets",
		mcp.WithDescription("Report which files in the .assets directories of the given "+
			"Markdown file or directory are unused. Never deletes anything."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Markdown file or directory to scan")),
	), s.scanAssets)

	s.mcp.AddTool(mcp.NewTool("clean_assets",
		mcp.WithDescription("Delete unused files from the .assets directories of the given "+
			"Markdown file or directory. Run scan_assets first to preview."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Markdown file or directory to clean")),
	), s.cleanAssets)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List the Markdown documents that would be processed for a path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File or directory to resolve")),
	), s.listDocuments)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// run reconciles every document under path with the given mode and returns
// the report text and total deleted count.
func (s *Server) run(path string, dryRun bool) (string, int, error) {
	docs := discover.Markdown([]string{path}, s.ext, s.logger)
	if len(docs) == 0 {
		return "", 0, fmt.Errorf("no markdown documents found for %s", path)
	}

	var buf bytes.Buffer
	rec := reconcile.New(reconcile.Options{
		AssetSuffix: s.suffix,
		DryRun:      dryRun,
		AssumeYes:   !dryRun,
		Out:         &buf,
		Logger:      s.logger,
	})

	total := 0
	for _, doc := range docs {
		n, err := rec.Process(doc)
		if err != nil {
			fmt.Fprintf(&buf, "Error processing %s: %v\n", doc, err)
			continue
		}
		total += n
	}
	return buf.String(), total, nil
}

func (s *Server) scanAssets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, _, err := s.run(path, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (s *Server) cleanAssets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, total, err := s.run(path, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%sTotal files deleted: %d", report, total)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docs := discover.Markdown([]string{path}, s.ext, s.logger)
	if len(docs) == 0 {
		return mcp.NewToolResultText("no markdown documents found"), nil
	}
	return mcp.NewToolResultText(strings.Join(docs, "\n")), nil
}
