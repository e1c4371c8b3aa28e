package schema

// EnrichedFinding adds presentation data to a Finding.
type EnrichedFinding struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	Finding
}

// EnrichedCandidate adds presentation data to a FileCandidate.
type EnrichedCandidate struct {
	Rank        int    `json:"rank"`
	Path        string `json:"path"`
	Occurrences int    `json:"occurrences"`
}

// ClassificationRule describes one category's scoring behavior for human
// display. The rules command and the read-only tool surface render these.
type ClassificationRule struct {
	Category    Category `json:"category"`
	Intentional bool     `json:"intentional"`
	MaxScore    float64  `json:"max_score"`
	Signals     []string `json:"signals"`
	Replacement string   `json:"replacement,omitempty"`
}
