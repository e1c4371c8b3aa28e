package schema

import "time"

// JSON tags across this file follow the published campaign report contract,
// which uses camelCase keys; the report files are read by tooling outside
// this repository.

// AdaptiveConfig carries the orchestration knobs in force for one batch.
// Adaptation produces a new value between batches; an in-flight batch never
// observes a change. Numeric bounds live with the adaptation logic, not here.
type AdaptiveConfig struct {
	MaxFilesPerBatch       int         `json:"maxFilesPerBatch"`       // Upper bound on files selected per batch
	TargetReductionPercent float64     `json:"targetReductionPercent"` // Share of discovered occurrences to eliminate
	ConfidenceThreshold    float64     `json:"confidenceThreshold"`    // Minimum classification confidence to act on
	SafetyLevel            SafetyLevel `json:"safetyLevel"`            // Operating posture of the run
	ValidationFrequency    int         `json:"validationFrequency"`    // Files between mid-batch compiler checkpoints
}

// BatchMetrics records the outcome of one executed batch. Values are appended
// to the campaign history and never mutated afterwards.
type BatchMetrics struct {
	BatchNumber            int           `json:"batchNumber"`
	FilesProcessed         int           `json:"filesProcessed"`
	AnyTypesAnalyzed       int           `json:"anyTypesAnalyzed"`
	ReplacementsAttempted  int           `json:"replacementsAttempted"`
	ReplacementsSuccessful int           `json:"replacementsSuccessful"`
	CompilationErrors      int           `json:"compilationErrors"`
	RollbacksPerformed     int           `json:"rollbacksPerformed"`
	ExecutionTime          time.Duration `json:"executionTime"`
	SafetyScore            float64       `json:"safetyScore"` // Composite risk estimate, [0,1]
}

// SuccessRate returns the share of attempted replacements that survived
// validation. A batch with no attempts counts as fully successful.
func (b BatchMetrics) SuccessRate() float64 {
	if b.ReplacementsAttempted == 0 {
		return 1.0
	}
	return float64(b.ReplacementsSuccessful) / float64(b.ReplacementsAttempted)
}

// SafetyMetrics accumulates campaign-lifetime failure counters.
type SafetyMetrics struct {
	BuildFailures      int `json:"buildFailures"`
	RollbacksPerformed int `json:"rollbacksPerformed"`
	BatchFailures      int `json:"batchFailures"`
	CompilationErrors  int `json:"compilationErrors"`
}

// Milestone marks a fraction of the reduction target together with the batch
// effort estimated to reach it.
type Milestone struct {
	Percent          int `json:"percent"` // 25, 50, 75 or 100
	Replacements     int `json:"replacements"`
	EstimatedBatches int `json:"estimatedBatches"`
}

// CampaignTarget is the recommendation produced by target analysis: a sampled
// view of the codebase composition and the reduction goal derived from it.
type CampaignTarget struct {
	SampledFiles         int         `json:"sampledFiles"`
	TotalOccurrences     int         `json:"totalOccurrences"`
	TestFilePercent      float64     `json:"testFilePercent"`
	ArrayRecordPercent   float64     `json:"arrayRecordPercent"`
	FunctionParamPercent float64     `json:"functionParamPercent"`
	RecommendedPercent   float64     `json:"recommendedPercent"`
	Milestones           []Milestone `json:"milestones"`
	Reasoning            []string    `json:"reasoning"`
}

// CampaignResults summarizes the end state of a run.
type CampaignResults struct {
	FilesProcessed          int           `json:"filesProcessed"`
	AnyTypesAnalyzed        int           `json:"anyTypesAnalyzed"`
	ReplacementsSuccessful  int           `json:"replacementsSuccessful"`
	RollbacksPerformed      int           `json:"rollbacksPerformed"`
	BatchesExecuted         int           `json:"batchesExecuted"`
	TargetReplacements      int           `json:"targetReplacements"`
	AchievedPercentOfTarget float64       `json:"achievedPercentOfTarget"`
	FinalState              CampaignState `json:"finalState"`
	StopReason              string        `json:"stopReason"`
	Duration                time.Duration `json:"duration"`
}

// CampaignReport is the write-only run summary persisted as JSON and Markdown.
// The engine never reads reports back.
type CampaignReport struct {
	ID                 string          `json:"id"`
	Timestamp          time.Time       `json:"timestamp"`
	Profile            CampaignProfile `json:"profile"`
	Configuration      AdaptiveConfig  `json:"configuration"`      // Knobs the run started with
	FinalConfiguration AdaptiveConfig  `json:"finalConfiguration"` // Knobs after the last adaptation
	Results            CampaignResults `json:"results"`
	BatchResults       []BatchMetrics  `json:"batchResults"`
	SafetyMetrics      SafetyMetrics   `json:"safetyMetrics"`
	Recommendations    []string        `json:"recommendations"`
}
