package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

func sampleReport() *schema.CampaignReport {
	return &schema.CampaignReport{
		ID:            "run-20260825-120000",
		Timestamp:     time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Profile:       schema.FullProfile,
		Configuration: schema.GetDefaultAdaptiveConfig(schema.FullProfile),
		FinalConfiguration: schema.AdaptiveConfig{
			MaxFilesPerBatch:       5,
			TargetReductionPercent: 15,
			ConfidenceThreshold:    0.9,
			SafetyLevel:            schema.ModerateSafety,
			ValidationFrequency:    4,
		},
		Results: schema.CampaignResults{
			FilesProcessed:          12,
			AnyTypesAnalyzed:        48,
			ReplacementsSuccessful:  31,
			RollbacksPerformed:      2,
			BatchesExecuted:         3,
			TargetReplacements:      40,
			AchievedPercentOfTarget: 77.5,
			FinalState:              schema.CompleteState,
			StopReason:              "no unprocessed candidates remain",
			Duration:                90 * time.Second,
		},
		BatchResults: []schema.BatchMetrics{
			{
				BatchNumber:            1,
				FilesProcessed:         5,
				AnyTypesAnalyzed:       20,
				ReplacementsAttempted:  15,
				ReplacementsSuccessful: 14,
				ExecutionTime:          30 * time.Second,
				SafetyScore:            0.91,
			},
			{
				BatchNumber:            2,
				FilesProcessed:         4,
				AnyTypesAnalyzed:       16,
				ReplacementsAttempted:  12,
				ReplacementsSuccessful: 10,
				CompilationErrors:      1,
				RollbacksPerformed:     2,
				ExecutionTime:          40 * time.Second,
				SafetyScore:            0.62,
			},
		},
		SafetyMetrics: schema.SafetyMetrics{
			BuildFailures:      1,
			RollbacksPerformed: 2,
			BatchFailures:      1,
			CompilationErrors:  1,
		},
		Recommendations: []string{
			"smaller batches held the safety score; keep the current knobs",
		},
	}
}

func TestSaveReportFiles(t *testing.T) {
	reportsDir := filepath.Join(t.TempDir(), "reports", "nested")
	jsonPath, mdPath, err := SaveReportFiles(sampleReport(), reportsDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(reportsDir, "typesweep-report-run-20260825-120000.json"), jsonPath)
	assert.Equal(t, filepath.Join(reportsDir, "typesweep-report-run-20260825-120000.md"), mdPath)

	// The JSON file must carry exactly the published top-level keys.
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, 9)
	for _, key := range []string{
		"id",
		"timestamp",
		"profile",
		"configuration",
		"finalConfiguration",
		"results",
		"batchResults",
		"safetyMetrics",
		"recommendations",
	} {
		assert.Contains(t, parsed, key)
	}

	configuration, ok := parsed["configuration"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(15), configuration["maxFilesPerBatch"])

	results, ok := parsed["results"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "no unprocessed candidates remain", results["stopReason"])
	assert.Equal(t, "complete", results["finalState"])

	batches, ok := parsed["batchResults"].([]any)
	require.True(t, ok)
	assert.Len(t, batches, 2)

	mdData, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	md := string(mdData)
	assert.Contains(t, md, "# Campaign Report run-20260825-120000")
	assert.Contains(t, md, "## Batches")
	assert.Contains(t, md, "| 1 | 5 | 20 | 15 | 14 | 0 | 0 | 0.91 |")
}

func TestWriteCampaignReportText(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 2, Width: 120}
	var buf bytes.Buffer

	err := WriteCampaignReport(&buf, sampleReport(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Campaign Report run-20260825-120000")
	assert.Contains(t, output, "Profile: full  Final state: complete")
	assert.Contains(t, output, "Stop reason: no unprocessed candidates remain")
	assert.Contains(t, output, "Duration: 1m30s")
	assert.Contains(t, output, "Replacements: 31 of 40 targeted (77.50% of target)")
	assert.Contains(t, output, "Knobs: batch size 15 -> 5, confidence 0.80 -> 0.90, checkpoint every 5 -> 4 files")
	assert.Contains(t, output, "Safety: 1 build failures, 2 rollbacks, 1 batch failures, 1 compilation errors")
	assert.Contains(t, output, "Recommendations:")
	assert.Contains(t, output, "smaller batches held the safety score")
}

func TestWriteCampaignReportMarkdown(t *testing.T) {
	cfg := &contract.Config{Output: schema.MarkdownOut, Precision: 2}
	var buf bytes.Buffer

	err := WriteCampaignReport(&buf, sampleReport(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "# Campaign Report run-20260825-120000")
	assert.Contains(t, output, "## Configuration")
	assert.Contains(t, output, "| Max files per batch | 15 | 5 |")
	assert.Contains(t, output, "| Confidence threshold | 0.80 | 0.90 |")
	assert.Contains(t, output, "## Results")
	assert.Contains(t, output, "| Achieved percent of target | 77.5% |")
	assert.Contains(t, output, "## Safety")
	assert.Contains(t, output, "## Recommendations")
}

func TestWriteCampaignReportCSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut, Precision: 2}
	var buf bytes.Buffer

	err := WriteCampaignReport(&buf, sampleReport(), cfg)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "batch,files_processed,any_types_analyzed,replacements_attempted,replacements_successful,compilation_errors,rollbacks_performed,safety_score,execution_ms", lines[0])
	assert.Equal(t, "1,5,20,15,14,0,0,0.9100,30000", lines[1])
	assert.Equal(t, "2,4,16,12,10,1,2,0.6200,40000", lines[2])
}

func TestWriteCampaignReportJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut, Precision: 2}
	var buf bytes.Buffer

	err := WriteCampaignReport(&buf, sampleReport(), cfg)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Contains(t, parsed, "finalConfiguration")
	assert.Contains(t, parsed, "safetyMetrics")
	assert.Equal(t, "run-20260825-120000", parsed["id"])
}
