package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/core/classify"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/outwriter"
	"github.com/alchm-kitchen/typesweep/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

func (h *toolHandler) handleClassifyFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	cfg := h.baseCfg.Clone()
	cfg.PathFilter = path
	if p := request.GetString("project_path", ""); p != "" {
		cfg.ProjectPath = p
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	findings, _, err := core.GetClassifyResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(findings, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDiscoverCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("project_path", ""); p != "" {
		cfg.ProjectPath = p
	}
	if f := request.GetString("path_filter", ""); f != "" {
		cfg.PathFilter = f
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	candidates, _, err := core.GetDiscoverResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discovery failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(candidates, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCampaignHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)
	if limit <= 0 {
		limit = h.baseCfg.ResultLimit
	}

	var store contract.CampaignStore
	if h.mgr != nil {
		store = h.mgr.GetCampaignStore()
	}
	runs, err := core.GetHistoryResults(store, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	// Render through the outwriter JSON shape so tool responses match the
	// CLI's --output json exactly.
	jsonCfg := h.baseCfg.Clone()
	jsonCfg.Output = schema.JSONOut
	var buf bytes.Buffer
	if err := outwriter.WriteRunHistory(&buf, runs, jsonCfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history rendering failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleClassificationRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(classify.Rules(h.baseCfg.CategoryCaps), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
