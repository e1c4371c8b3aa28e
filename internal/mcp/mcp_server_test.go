package mcp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	mcp_internal "github.com/alchm-kitchen/typesweep/internal/mcp"
	"github.com/alchm-kitchen/typesweep/internal/runstore"
	"github.com/alchm-kitchen/typesweep/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBaseConfig() *contract.Config {
	return &contract.Config{
		ProjectPath: ".",
		SourceDirs:  []string{"src"},
		ResultLimit: 10,
		Workers:     1,
	}
}

func TestMCPServerTools(t *testing.T) {
	var mgr contract.HistoryManager
	s := mcp_internal.NewMCPServer(testBaseConfig(), mgr)

	for _, name := range []string{"classify_file", "discover_candidates", "campaign_history", "classification_rules"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// A nil manager is fine here because these cases fail before any store access
	var mgr contract.HistoryManager
	s := mcp_internal.NewMCPServer(testBaseConfig(), mgr)

	ctx := context.Background()

	t.Run("classify_file missing path", func(t *testing.T) {
		tool := s.GetTool("classify_file")
		require.NotNil(t, tool, "Tool classify_file should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "classify_file",
				Arguments: map[string]any{
					"path": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "path is required")
	})

	t.Run("campaign_history without a store", func(t *testing.T) {
		tool := s.GetTool("campaign_history")
		require.NotNil(t, tool, "Tool campaign_history should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "campaign_history",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "history is disabled")
	})
}

func TestMCPServerHandlers_ClassificationRules(t *testing.T) {
	var mgr contract.HistoryManager
	s := mcp_internal.NewMCPServer(testBaseConfig(), mgr)

	tool := s.GetTool("classification_rules")
	require.NotNil(t, tool, "Tool classification_rules should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "classification_rules",
			Arguments: map[string]any{},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "error_handling")
	assert.Contains(t, text, "max_score")
	assert.Contains(t, text, "signals")
}

func TestMCPServerHandlers_DiscoverCandidates(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "client.ts"),
		[]byte("export function fetchAll(query: any): any[] {\n  return [];\n}\n"), 0o644))

	var mgr contract.HistoryManager
	s := mcp_internal.NewMCPServer(testBaseConfig(), mgr)

	tool := s.GetTool("discover_candidates")
	require.NotNil(t, tool, "Tool discover_candidates should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "discover_candidates",
			Arguments: map[string]any{
				"project_path": root,
				"limit":        5.0,
			},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "src/client.ts")
	assert.Contains(t, text, `"occurrences": 1`)
}

func TestMCPServerHandlers_CampaignHistory(t *testing.T) {
	store := new(runstore.MockCampaignStore)
	store.On("GetAllRuns").Return([]schema.CampaignRunRecord{
		{
			RunID:          "run-20260820-101500-aa11bb22",
			Profile:        "full",
			StartTime:      time.Date(2026, 8, 20, 10, 15, 0, 0, time.UTC),
			FilesProcessed: 12,
			Replacements:   30,
		},
	}, nil)
	mgr := new(runstore.MockHistoryManager)
	mgr.On("GetCampaignStore").Return(store)

	s := mcp_internal.NewMCPServer(testBaseConfig(), mgr)

	tool := s.GetTool("campaign_history")
	require.NotNil(t, tool, "Tool campaign_history should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "campaign_history",
			Arguments: map[string]any{},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "run-20260820-101500-aa11bb22")
	assert.Contains(t, text, `"replacements": 30`)
	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}
