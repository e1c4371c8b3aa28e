// Package mcp provides the Model Context Protocol (MCP) server implementation.
//
// Every tool is read-only: classification previews, candidate discovery,
// recorded history and the rule registry. Campaign execution mutates the
// project and stays CLI-only.
package mcp

import (
	"context"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Typesweep MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Typesweep Campaign Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: classify_file ---
	s.AddTool(mcp.NewTool("classify_file",
		mcp.WithDescription("Classify the loose 'any' annotations in one TypeScript file as intentional or unintentional, with confidence scores and suggested replacements."),
		mcp.WithString("path", mcp.Description("File path relative to the project root (e.g. 'src/services/client.ts')."), mcp.Required()),
		mcp.WithString("project_path", mcp.Description("Path to the TypeScript project (defaults to the configured project).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of findings returned.")),
	), h.handleClassifyFile)

	// --- 2. Tool: discover_candidates ---
	s.AddTool(mcp.NewTool("discover_candidates",
		mcp.WithDescription("Scan the project for files containing loose 'any' annotations, ranked by occurrence count."),
		mcp.WithString("project_path", mcp.Description("Path to the TypeScript project.")),
		mcp.WithString("path_filter", mcp.Description("Only include files under this relative path prefix.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of candidate files returned.")),
	), h.handleDiscoverCandidates)

	// --- 3. Tool: campaign_history ---
	s.AddTool(mcp.NewTool("campaign_history",
		mcp.WithDescription("List recorded campaign runs from the history store, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of runs returned.")),
	), h.handleCampaignHistory)

	// --- 4. Tool: classification_rules ---
	s.AddTool(mcp.NewTool("classification_rules",
		mcp.WithDescription("Show the classification category registry: verdicts, maximum scores, recognized signals and replacement types."),
	), h.handleClassificationRules)

	return s
}

// StartMCPServer starts the Typesweep MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
