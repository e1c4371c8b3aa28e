// Package parquet provides data structures and functions for exporting
// campaign history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/alchm-kitchen/typesweep/schema"
)

// CampaignRun represents a single campaign run with metadata.
// This struct maps to the typesweep_campaign_runs database table.
type CampaignRun struct {
	// RunID is the unique identifier for this campaign run
	RunID string `parquet:"run_id,snappy"`

	// Profile is the operating profile the run started under
	Profile string `parquet:"profile,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable while in flight)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// FinalState is the terminal state the run reached (nullable while in flight)
	FinalState *string `parquet:"final_state,optional,snappy"`

	// StopReason describes why the run stopped (nullable while in flight)
	StopReason *string `parquet:"stop_reason,optional,snappy"`

	// FilesProcessed is the number of files the run touched
	FilesProcessed int32 `parquet:"files_processed,snappy"`

	// Replacements is the number of substitutions that survived validation
	Replacements int32 `parquet:"replacements,snappy"`

	// Rollbacks is the number of rollbacks performed during the run
	Rollbacks int32 `parquet:"rollbacks,snappy"`

	// ConfigParams contains the JSON-encoded starting knobs (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// BatchMetric represents the outcome of one executed batch.
// This struct maps to the typesweep_batch_metrics database table.
type BatchMetric struct {
	// RunID references the parent campaign run
	RunID string `parquet:"run_id,snappy"`

	// BatchNumber is the 1-based position of the batch within the run
	BatchNumber int32 `parquet:"batch_number,snappy"`

	// FilesProcessed is the number of files the batch touched
	FilesProcessed int32 `parquet:"files_processed,snappy"`

	// AnyTypesAnalyzed is the number of occurrences classified in the batch
	AnyTypesAnalyzed int32 `parquet:"any_types_analyzed,snappy"`

	// ReplacementsAttempted is the number of substitutions the batch tried
	ReplacementsAttempted int32 `parquet:"replacements_attempted,snappy"`

	// ReplacementsSuccessful is the number of substitutions that survived validation
	ReplacementsSuccessful int32 `parquet:"replacements_successful,snappy"`

	// CompilationErrors is the number of compiler diagnostics the batch caused
	CompilationErrors int32 `parquet:"compilation_errors,snappy"`

	// RollbacksPerformed is the number of rollbacks within the batch
	RollbacksPerformed int32 `parquet:"rollbacks_performed,snappy"`

	// ExecutionMs is the wall-clock duration of the batch in milliseconds
	ExecutionMs int64 `parquet:"execution_ms,snappy"`

	// SafetyScore is the composite risk estimate for the batch (0-1, higher is safer)
	SafetyScore float64 `parquet:"safety_score,snappy"`

	// RecordedAt is when the batch outcome was persisted
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// SafetyEvent represents a single safety incident recorded during a run.
// This struct maps to the typesweep_safety_events database table.
type SafetyEvent struct {
	// RunID references the parent campaign run
	RunID string `parquet:"run_id,snappy"`

	// EventTime is when the incident occurred
	EventTime time.Time `parquet:"event_time,snappy"`

	// Severity is the incident severity (info, warn, error, fatal)
	Severity string `parquet:"severity,snappy"`

	// Kind names the incident class (rollback, build_failure, ...)
	Kind string `parquet:"kind,snappy"`

	// FilePath is the file involved, if the incident concerns one (nullable)
	FilePath *string `parquet:"file_path,optional,snappy"`

	// Message is the human-readable incident description
	Message string `parquet:"message,snappy"`
}

// WriteCampaignRunsParquet writes a slice of CampaignRun structs to a Parquet file.
func WriteCampaignRunsParquet(data []CampaignRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the CampaignRun struct tags
	writer := parquet.NewGenericWriter[CampaignRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteBatchMetricsParquet writes a slice of BatchMetric structs to a Parquet file.
func WriteBatchMetricsParquet(data []BatchMetric, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the BatchMetric struct tags
	writer := parquet.NewGenericWriter[BatchMetric](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteSafetyEventsParquet writes a slice of SafetyEvent structs to a Parquet file.
func WriteSafetyEventsParquet(data []SafetyEvent, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the SafetyEvent struct tags
	writer := parquet.NewGenericWriter[SafetyEvent](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertCampaignRunRecords converts schema.CampaignRunRecord to CampaignRun for Parquet export.
func ConvertCampaignRunRecords(records []schema.CampaignRunRecord) []CampaignRun {
	result := make([]CampaignRun, len(records))
	for i, record := range records {
		result[i] = CampaignRun{
			RunID:          record.RunID,
			Profile:        record.Profile,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			FinalState:     record.FinalState,
			StopReason:     record.StopReason,
			FilesProcessed: record.FilesProcessed,
			Replacements:   record.Replacements,
			Rollbacks:      record.Rollbacks,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertBatchMetricsRecords converts schema.BatchMetricsRecord to BatchMetric for Parquet export.
func ConvertBatchMetricsRecords(records []schema.BatchMetricsRecord) []BatchMetric {
	result := make([]BatchMetric, len(records))
	for i, record := range records {
		result[i] = BatchMetric{
			RunID:                  record.RunID,
			BatchNumber:            record.BatchNumber,
			FilesProcessed:         record.FilesProcessed,
			AnyTypesAnalyzed:       record.AnyTypesAnalyzed,
			ReplacementsAttempted:  record.ReplacementsAttempted,
			ReplacementsSuccessful: record.ReplacementsSuccessful,
			CompilationErrors:      record.CompilationErrors,
			RollbacksPerformed:     record.RollbacksPerformed,
			ExecutionMs:            record.ExecutionMs,
			SafetyScore:            record.SafetyScore,
			RecordedAt:             record.RecordedAt,
		}
	}
	return result
}

// ConvertSafetyEventRecords converts schema.SafetyEventRecord to SafetyEvent for Parquet export.
func ConvertSafetyEventRecords(records []schema.SafetyEventRecord) []SafetyEvent {
	result := make([]SafetyEvent, len(records))
	for i, record := range records {
		result[i] = SafetyEvent{
			RunID:     record.RunID,
			EventTime: record.EventTime,
			Severity:  record.Severity,
			Kind:      record.Kind,
			FilePath:  record.FilePath,
			Message:   record.Message,
		}
	}
	return result
}

// MockFetchCampaignRuns generates sample CampaignRun data for demonstration.
func MockFetchCampaignRuns() []CampaignRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 20*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	finalState1 := "complete"
	stopReason1 := "reduction target reached: 118 replacements against a target of 110"
	configParams1 := `{"profile":"full","max_files_per_batch":15,"confidence_threshold":0.8}`

	startTime2 := now.Add(-26 * time.Hour)
	endTime2 := now.Add(-25 * time.Hour)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	finalState2 := "aborted"
	stopReason2 := "circuit breaker: 3 consecutive batches under safety floor 0.70"
	configParams2 := `{"profile":"pilot","max_files_per_batch":12,"confidence_threshold":0.8}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: the terminal fields are nil to demonstrate an in-flight run

	return []CampaignRun{
		{
			RunID:          "run-20260823-091500-1a2b3c4d",
			Profile:        "full",
			StartTime:      startTime1,
			EndTime:        &endTime1,
			RunDurationMs:  &durationMs1,
			FinalState:     &finalState1,
			StopReason:     &stopReason1,
			FilesProcessed: 42,
			Replacements:   118,
			Rollbacks:      2,
			ConfigParams:   &configParams1,
		},
		{
			RunID:          "run-20260822-083000-5e6f7a8b",
			Profile:        "pilot",
			StartTime:      startTime2,
			EndTime:        &endTime2,
			RunDurationMs:  &durationMs2,
			FinalState:     &finalState2,
			StopReason:     &stopReason2,
			FilesProcessed: 9,
			Replacements:   14,
			Rollbacks:      3,
			ConfigParams:   &configParams2,
		},
		{
			RunID:          "run-20260823-113000-9c0d1e2f",
			Profile:        "full",
			StartTime:      startTime3,
			EndTime:        nil, // Still running - nullable field
			RunDurationMs:  nil, // Not yet calculated - nullable field
			FinalState:     nil, // No terminal state yet - nullable field
			StopReason:     nil,
			FilesProcessed: 0,
			Replacements:   0,
			Rollbacks:      0,
			ConfigParams:   nil, // No config stored - nullable field
		},
	}
}

// MockFetchBatchMetrics generates sample BatchMetric data for demonstration.
func MockFetchBatchMetrics() []BatchMetric {
	now := time.Now()
	runID := "run-20260823-091500-1a2b3c4d"

	return []BatchMetric{
		{
			RunID:                  runID,
			BatchNumber:            1,
			FilesProcessed:         15,
			AnyTypesAnalyzed:       61,
			ReplacementsAttempted:  38,
			ReplacementsSuccessful: 38,
			CompilationErrors:      0,
			RollbacksPerformed:     0,
			ExecutionMs:            41250,
			SafetyScore:            1.0,
			RecordedAt:             now.Add(-115 * time.Minute),
		},
		{
			RunID:                  runID,
			BatchNumber:            2,
			FilesProcessed:         15,
			AnyTypesAnalyzed:       54,
			ReplacementsAttempted:  33,
			ReplacementsSuccessful: 29,
			CompilationErrors:      4,
			RollbacksPerformed:     1,
			ExecutionMs:            63800,
			SafetyScore:            0.58,
			RecordedAt:             now.Add(-105 * time.Minute),
		},
	}
}

// MockFetchSafetyEvents generates sample SafetyEvent data for demonstration.
func MockFetchSafetyEvents() []SafetyEvent {
	now := time.Now()
	filePath := "src/services/payment.ts"

	return []SafetyEvent{
		{
			RunID:     "run-20260823-091500-1a2b3c4d",
			EventTime: now.Add(-106 * time.Minute),
			Severity:  "warn",
			Kind:      "rollback",
			FilePath:  &filePath,
			Message:   "batch build validation failed",
		},
		{
			RunID:     "run-20260823-091500-1a2b3c4d",
			EventTime: now.Add(-104 * time.Minute),
			Severity:  "info",
			Kind:      "adaptation",
			FilePath:  nil, // Run-level event - nullable field
			Message:   "trailing safety 0.79 under 0.80: checkpoint every 4 files",
		},
	}
}
