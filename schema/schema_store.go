package schema

import "time"

// CampaignRunRecord represents a row from the typesweep_campaign_runs table.
type CampaignRunRecord struct {
	RunID          string
	Profile        string
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	FinalState     *string
	StopReason     *string
	FilesProcessed int32
	Replacements   int32
	Rollbacks      int32
	ConfigParams   *string
}

// BatchMetricsRecord represents a row from the typesweep_batch_metrics table.
type BatchMetricsRecord struct {
	RunID                  string
	BatchNumber            int32
	FilesProcessed         int32
	AnyTypesAnalyzed       int32
	ReplacementsAttempted  int32
	ReplacementsSuccessful int32
	CompilationErrors      int32
	RollbacksPerformed     int32
	ExecutionMs            int64
	SafetyScore            float64
	RecordedAt             time.Time
}

// SafetyEventRecord represents a row from the typesweep_safety_events table.
type SafetyEventRecord struct {
	RunID     string
	EventTime time.Time
	Severity  string
	Kind      string
	FilePath  *string
	Message   string
}
