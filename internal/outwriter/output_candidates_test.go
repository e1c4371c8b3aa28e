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

func sampleCandidates() []schema.EnrichedCandidate {
	return []schema.EnrichedCandidate{
		{Rank: 1, Path: "src/services/alchemy.ts", Occurrences: 9},
		{Rank: 2, Path: "src/utils/parse.ts", Occurrences: 5},
		{Rank: 3, Path: "src/components/Chart.tsx", Occurrences: 3},
	}
}

func TestWriteCandidatesTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Workers: 8, Width: 120}
	var buf bytes.Buffer

	err := WriteCandidates(&buf, sampleCandidates(), cfg, 250*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "src/services/alchemy.ts")
	assert.Contains(t, output, "src/utils/parse.ts")
	assert.Contains(t, output, "Showing top 3 candidate files (total occurrences: 17)")
	assert.Contains(t, output, "Discovery completed in 250ms with 8 workers")
}

func TestWriteCandidatesJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut}
	var buf bytes.Buffer

	err := WriteCandidates(&buf, sampleCandidates(), cfg, time.Second)
	require.NoError(t, err)

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 3)
	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "src/services/alchemy.ts", result[0]["path"])
	assert.Equal(t, float64(9), result[0]["occurrences"])
}

func TestWriteCandidatesCSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut}
	var buf bytes.Buffer

	err := WriteCandidates(&buf, sampleCandidates(), cfg, time.Second)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "rank,file,occurrences", lines[0])
	assert.Equal(t, "1,src/services/alchemy.ts,9", lines[1])
	assert.Equal(t, "3,src/components/Chart.tsx,3", lines[3])
}
