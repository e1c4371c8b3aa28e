package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchm-kitchen/typesweep/schema"
)

func sampleFindings() []schema.Finding {
	return []schema.Finding{
		{FilePath: "src/b.ts", LineNumber: 3, Classification: schema.Classification{Confidence: 0.62}},
		{FilePath: "src/a.ts", LineNumber: 9, Classification: schema.Classification{Confidence: 0.95}},
		{FilePath: "src/a.ts", LineNumber: 2, Classification: schema.Classification{Confidence: 0.95}},
		{FilePath: "src/c.ts", LineNumber: 1, Classification: schema.Classification{Confidence: 0.40}},
	}
}

func makeCandidate(path string, occurrences int) schema.FileCandidate {
	c := schema.FileCandidate{Path: path}
	for i := range occurrences {
		c.Occurrences = append(c.Occurrences, schema.Occurrence{
			FilePath:   path,
			LineNumber: i + 1,
			Line:       "const value: any = null;",
			Pattern:    "annotation",
		})
	}
	return c
}

// TestRankFindings tests finding ranking logic.
func TestRankFindings(t *testing.T) {
	t.Run("rank and limit", func(t *testing.T) {
		ranked := RankFindings(sampleFindings(), 2)
		assert.Len(t, ranked, 2)
		assert.Equal(t, 0.95, ranked[0].Confidence)
		assert.Equal(t, 0.95, ranked[1].Confidence)
	})

	t.Run("ties resolve by path then line", func(t *testing.T) {
		ranked := RankFindings(sampleFindings(), 10)
		assert.Equal(t, "src/a.ts", ranked[0].FilePath)
		assert.Equal(t, 2, ranked[0].LineNumber)
		assert.Equal(t, "src/a.ts", ranked[1].FilePath)
		assert.Equal(t, 9, ranked[1].LineNumber)
	})

	t.Run("limit exceeds length", func(t *testing.T) {
		ranked := RankFindings(sampleFindings(), 10)
		assert.Len(t, ranked, 4)
	})

	t.Run("confidence in descending order", func(t *testing.T) {
		ranked := RankFindings(sampleFindings(), 10)
		for i := 1; i < len(ranked); i++ {
			assert.LessOrEqual(t, ranked[i].Confidence, ranked[i-1].Confidence)
		}
	})
}

// TestRankCandidates tests candidate file ranking logic.
func TestRankCandidates(t *testing.T) {
	candidates := []schema.FileCandidate{
		makeCandidate("src/components/Chart.tsx", 3),
		makeCandidate("src/services/alchemy.ts", 9),
		makeCandidate("src/services/client.ts", 3),
	}

	t.Run("rank and limit", func(t *testing.T) {
		ranked := RankCandidates(candidates, 2)
		assert.Len(t, ranked, 2)
		assert.Equal(t, "src/services/alchemy.ts", ranked[0].Path)
	})

	t.Run("ties resolve by path", func(t *testing.T) {
		ranked := RankCandidates(candidates, 10)
		assert.Equal(t, "src/components/Chart.tsx", ranked[1].Path)
		assert.Equal(t, "src/services/client.ts", ranked[2].Path)
	})

	t.Run("limit exceeds length", func(t *testing.T) {
		ranked := RankCandidates(candidates, 10)
		assert.Len(t, ranked, 3)
	})
}

// TestEnrichFindings tests rank and label assignment for findings.
func TestEnrichFindings(t *testing.T) {
	ranked := RankFindings(sampleFindings(), 10)
	enriched := EnrichFindings(ranked)

	assert.Len(t, enriched, 4)
	for i, e := range enriched {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, "Certain", enriched[0].Label)
	assert.Equal(t, "Moderate", enriched[2].Label)
	assert.Equal(t, "Low", enriched[3].Label)
	assert.Equal(t, "src/a.ts", enriched[0].FilePath)
	assert.Equal(t, 2, enriched[0].LineNumber)
}

// TestEnrichCandidates tests rank assignment for candidate files.
func TestEnrichCandidates(t *testing.T) {
	ranked := RankCandidates([]schema.FileCandidate{
		makeCandidate("src/components/Chart.tsx", 3),
		makeCandidate("src/services/alchemy.ts", 9),
	}, 10)
	enriched := EnrichCandidates(ranked)

	assert.Len(t, enriched, 2)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, "src/services/alchemy.ts", enriched[0].Path)
	assert.Equal(t, 9, enriched[0].Occurrences)
	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, 3, enriched[1].Occurrences)
}
