package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

func sampleTarget() *schema.CampaignTarget {
	return &schema.CampaignTarget{
		SampledFiles:         25,
		TotalOccurrences:     120,
		TestFilePercent:      30,
		ArrayRecordPercent:   45,
		FunctionParamPercent: 10,
		RecommendedPercent:   18,
		Milestones: []schema.Milestone{
			{Percent: 25, Replacements: 30, EstimatedBatches: 2},
			{Percent: 50, Replacements: 60, EstimatedBatches: 4},
			{Percent: 75, Replacements: 90, EstimatedBatches: 6},
			{Percent: 100, Replacements: 120, EstimatedBatches: 8},
		},
		Reasoning: []string{
			"high share of array and record annotations",
			"test files excluded from the recommendation",
		},
	}
}

func TestWriteTargetText(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Workers: 4, Width: 120}
	var buf bytes.Buffer

	err := WriteTarget(&buf, sampleTarget(), cfg, 2*time.Second)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Campaign Target")
	assert.Contains(t, output, "Sampled 25 files with 120 occurrences")
	assert.Contains(t, output, "Test files: 30.0%  Arrays/records: 45.0%  Function params: 10.0%")
	assert.Contains(t, output, "Recommended reduction target: 18.0%")
	assert.Contains(t, output, "25%")
	assert.Contains(t, output, "100%")
	assert.Contains(t, output, "Reasoning:")
	assert.Contains(t, output, "high share of array and record annotations")
	assert.Contains(t, output, "Target analysis completed in 2s with 4 workers")
}

func TestWriteTargetTextEmojiHeader(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, UseEmojis: true, Width: 120}
	var buf bytes.Buffer

	err := WriteTarget(&buf, sampleTarget(), cfg, time.Second)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "🎯 Campaign Target")
}

func TestWriteTargetJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut}
	var buf bytes.Buffer

	err := WriteTarget(&buf, sampleTarget(), cfg, time.Second)
	require.NoError(t, err)

	// The recommendation uses the camelCase report contract.
	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, float64(25), result["sampledFiles"])
	assert.Equal(t, float64(18), result["recommendedPercent"])

	milestones, ok := result["milestones"].([]any)
	require.True(t, ok)
	require.Len(t, milestones, 4)
	first, ok := milestones[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), first["estimatedBatches"])
}

func TestWriteTargetCSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut}
	var buf bytes.Buffer

	err := WriteTarget(&buf, sampleTarget(), cfg, time.Second)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "milestone_percent,replacements,estimated_batches", lines[0])
	assert.Equal(t, "25,30,2", lines[1])
	assert.Equal(t, "100,120,8", lines[4])
}
