// Package schema has configs, models and global variables for all parts of typesweep.
package schema

// Occurrence is a single raw "any" sighting produced by source discovery.
// It records where the annotation lives and which syntactic pattern matched.
type Occurrence struct {
	FilePath   string // Relative path to the file containing the annotation
	LineNumber int    // 1-based line number of the annotation
	Line       string // Exact text of the line at discovery time
	Pattern    string // Name of the syntactic pattern that matched
}

// FileCandidate groups all occurrences discovered in one source file.
// Candidates are processed at most once per campaign run.
type FileCandidate struct {
	Path        string       // Relative path to the candidate file
	Occurrences []Occurrence // Occurrences in ascending line order
}

// ClassificationContext captures everything the classifier is allowed to know
// about one occurrence. It includes the occurrence line, a bounded window of
// surrounding lines, comment detection results, and coarse file/domain tags.
// Ephemeral, created per occurrence and discarded after classification.
type ClassificationContext struct {
	FilePath       string   // Relative path to the file containing the occurrence
	LineNumber     int      // 1-based line number of the occurrence
	Snippet        string   // Exact text of the occurrence line
	Surrounding    []string // Neighboring lines within the context radius, in file order
	HasComment     bool     // A comment sits on the line or directly above it
	CommentText    string   // Text of that comment; empty when HasComment is false
	IsTestFile     bool     // File matches test naming conventions
	IsTypeDefFile  bool     // File is a declaration file or lives under a types path
	IsConfigFile   bool     // File matches configuration naming conventions
	Domain         Domain   // Coarse subject-matter tag from the domain provider
	DomainHints    []string // Optional intentionality hints from the domain provider
	SuggestedTypes []string // Optional domain-suggested concrete types
}

// Classification is the verdict for one occurrence: whether the annotation is
// believed deliberate, how certain the engine is, and what should replace it.
type Classification struct {
	IsIntentional         bool     `json:"is_intentional"`
	Confidence            float64  `json:"confidence"` // Certainty of the verdict, [0,1]
	Reasoning             string   `json:"reasoning"`
	Category              Category `json:"category"`
	SuggestedReplacement  string   `json:"suggested_replacement,omitempty"`
	RequiresDocumentation bool     `json:"requires_documentation"`
}

// Replacement is one pending text substitution derived from a classification.
// It is consumed exactly once by the transaction layer, then discarded.
type Replacement struct {
	FilePath           string  // Relative path to the file to mutate
	LineNumber         int     // 1-based line number of the substitution
	Original           string  // Exact text expected at the line
	Updated            string  // Text to substitute in its place
	Confidence         float64 // Confidence inherited from the classification
	ValidationRequired bool    // If true, a compiler check must follow the write
}

// Finding pairs an occurrence with its classification verdict. It is the unit
// of dry-run output and of the read-only tool surface.
type Finding struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	Snippet    string `json:"snippet"`
	Domain     Domain `json:"domain"`
	Classification
}
