package core

import (
	"sort"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// RankFindings sorts findings by confidence in descending order and returns
// the top 'limit' findings. Ties resolve by path and then line number so the
// same project always produces the same ordering.
func RankFindings(findings []schema.Finding, limit int) []schema.Finding {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Confidence != findings[j].Confidence {
			return findings[i].Confidence > findings[j].Confidence
		}
		if findings[i].FilePath != findings[j].FilePath {
			return findings[i].FilePath < findings[j].FilePath
		}
		return findings[i].LineNumber < findings[j].LineNumber
	})
	if len(findings) > limit {
		return findings[:limit]
	}
	return findings
}

// RankCandidates sorts candidate files by occurrence count in descending
// order and returns the top 'limit' candidates. Ties resolve by path.
func RankCandidates(candidates []schema.FileCandidate, limit int) []schema.FileCandidate {
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := len(candidates[i].Occurrences), len(candidates[j].Occurrences)
		if ci != cj {
			return ci > cj
		}
		return candidates[i].Path < candidates[j].Path
	})
	if len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}

// EnrichFindings adds display metadata to ranked findings: the 1-based rank
// position and the plain confidence label.
func EnrichFindings(findings []schema.Finding) []schema.EnrichedFinding {
	enriched := make([]schema.EnrichedFinding, len(findings))
	for i, f := range findings {
		enriched[i] = schema.EnrichedFinding{
			Rank:    i + 1,
			Label:   contract.GetPlainLabel(f.Confidence),
			Finding: f,
		}
	}
	return enriched
}

// EnrichCandidates adds 1-based rank positions to ranked candidate files.
func EnrichCandidates(candidates []schema.FileCandidate) []schema.EnrichedCandidate {
	enriched := make([]schema.EnrichedCandidate, len(candidates))
	for i, c := range candidates {
		enriched[i] = schema.EnrichedCandidate{
			Rank:        i + 1,
			Path:        c.Path,
			Occurrences: len(c.Occurrences),
		}
	}
	return enriched
}
