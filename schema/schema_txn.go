package schema

import "time"

// ReplacementResult holds the outcome of one transactional replacement.
type ReplacementResult struct {
	FilePath          string   `json:"file_path"`
	LineNumber        int      `json:"line_number"`
	Success           bool     `json:"success"`
	RollbackPerformed bool     `json:"rollback_performed"`
	CompilerErrors    []string `json:"compiler_errors,omitempty"` // Parsed diagnostic lines when validation failed
	Reason            string   `json:"reason,omitempty"`          // Human-readable failure explanation
}

// BatchApplyResult holds the outcome of applying a replacement batch under a
// single consolidated compiler check.
type BatchApplyResult struct {
	Success           bool     `json:"success"`
	Applied           int      `json:"applied"` // Substitutions written, stale lines excluded
	FilesModified     []string `json:"files_modified"`
	RollbackPerformed bool     `json:"rollback_performed"`
	CompilerErrors    []string `json:"compiler_errors,omitempty"`
}

// SafetyAssessment breaks down the composite safety score for one replacement.
// The score is the plain average of the four components.
type SafetyAssessment struct {
	Score        float64  `json:"score"`
	Confidence   float64  `json:"confidence"`
	ContextRisk  float64  `json:"context_risk"`
	PatternRisk  float64  `json:"pattern_risk"`
	FileTypeRisk float64  `json:"file_type_risk"`
	Warnings     []string `json:"warnings,omitempty"`
	IsValid      bool     `json:"is_valid"` // Score meets the configured minimum
}

// BuildValidation holds the outcome of a post-batch build health check.
type BuildValidation struct {
	Success       bool          `json:"success"`
	ErrorCount    int           `json:"error_count"`
	Errors        []string      `json:"errors,omitempty"`
	TestsRun      bool          `json:"tests_run"`
	TestsPassed   bool          `json:"tests_passed"`
	BuildTime     time.Duration `json:"build_time"`
	MemoryWarning bool          `json:"memory_warning"`
}

// RollbackCheck reports whether every backup taken by a transaction is able
// to restore its file. The check never touches real working files.
type RollbackCheck struct {
	Verified     bool     `json:"verified"`
	CheckedFiles int      `json:"checked_files"`
	Problems     []string `json:"problems,omitempty"`
}
