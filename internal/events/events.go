// Package events writes the campaign safety audit trail.
//
// Every run appends structured JSON lines to a single event log so that
// rollbacks, build failures and aborts stay reviewable after the process
// exits. Events at warn severity or above are mirrored to the console, and
// every event is also forwarded to the campaign history store when one is
// attached.
package events

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// Event kinds written to the audit trail.
const (
	KindRunStarted      = "run_started"
	KindRunEnded        = "run_ended"
	KindBatchStarted    = "batch_started"
	KindBatchCompleted  = "batch_completed"
	KindRollback        = "rollback"
	KindBuildFailure    = "build_failure"
	KindSafetyBreach    = "safety_breach"
	KindCheckpointAbort = "checkpoint_abort"
	KindBackupIntegrity = "backup_integrity"
	KindAdaptation      = "adaptation"
)

// Recorder appends safety events for one campaign run to the shared JSONL
// audit log. Methods never fail the caller; a run must not die because its
// audit trail hiccuped.
type Recorder struct {
	logger *zap.Logger
	runID  string
	sink   contract.CampaignStore // optional persistent mirror, may be nil
}

// NewRecorder opens (or creates) the JSONL audit log at logPath and returns
// a recorder stamped with runID. An empty logPath yields a file-less recorder
// so callers never branch on configuration; sink may be nil.
func NewRecorder(logPath, runID string, sink contract.CampaignStore) (*Recorder, error) {
	if logPath == "" {
		return &Recorder{logger: zap.NewNop(), runID: runID, sink: sink}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{logPath}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil // every safety event must land in the trail

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building event logger: %w", err)
	}

	return &Recorder{
		logger: logger.With(zap.String("run_id", runID)),
		runID:  runID,
		sink:   sink,
	}, nil
}

// RunStarted records the opening event with the knobs in force.
func (r *Recorder) RunStarted(profile schema.CampaignProfile, ac schema.AdaptiveConfig) {
	r.record(schema.InfoSeverity, KindRunStarted, "", fmt.Sprintf("campaign started with profile %s", profile),
		zap.String("profile", string(profile)),
		zap.Int("max_files_per_batch", ac.MaxFilesPerBatch),
		zap.Float64("target_reduction_percent", ac.TargetReductionPercent),
		zap.Float64("confidence_threshold", ac.ConfidenceThreshold),
		zap.String("safety_level", string(ac.SafetyLevel)),
		zap.Int("validation_frequency", ac.ValidationFrequency),
	)
}

// RunEnded records the closing event with the terminal state and stop reason.
func (r *Recorder) RunEnded(state schema.CampaignState, reason string) {
	severity := schema.InfoSeverity
	if state == schema.AbortedState {
		severity = schema.ErrorSeverity
	}
	r.record(severity, KindRunEnded, "", reason, zap.String("final_state", string(state)))
}

// BatchStarted records the selection of a new batch.
func (r *Recorder) BatchStarted(batchNumber, fileCount int) {
	r.record(schema.InfoSeverity, KindBatchStarted, "",
		fmt.Sprintf("batch %d selected %d files", batchNumber, fileCount),
		zap.Int("batch_number", batchNumber),
		zap.Int("file_count", fileCount),
	)
}

// BatchCompleted records the metrics of a finished batch. A failure-heavy
// batch is reported at warn severity so it surfaces on the console.
func (r *Recorder) BatchCompleted(m schema.BatchMetrics) {
	severity := schema.InfoSeverity
	if m.RollbacksPerformed > 0 || m.CompilationErrors > 0 {
		severity = schema.WarnSeverity
	}
	r.record(severity, KindBatchCompleted, "",
		fmt.Sprintf("batch %d finished: %d/%d replacements succeeded", m.BatchNumber, m.ReplacementsSuccessful, m.ReplacementsAttempted),
		zap.Int("batch_number", m.BatchNumber),
		zap.Int("files_processed", m.FilesProcessed),
		zap.Int("replacements_attempted", m.ReplacementsAttempted),
		zap.Int("replacements_successful", m.ReplacementsSuccessful),
		zap.Int("compilation_errors", m.CompilationErrors),
		zap.Int("rollbacks_performed", m.RollbacksPerformed),
		zap.Float64("safety_score", m.SafetyScore),
		zap.Duration("execution_time", m.ExecutionTime),
	)
}

// Rollback records a restore of one file from its backup.
func (r *Recorder) Rollback(filePath, reason string) {
	r.record(schema.WarnSeverity, KindRollback, filePath, reason)
}

// BuildFailure records a failed project-wide build validation.
func (r *Recorder) BuildFailure(errorCount int, firstError string) {
	r.record(schema.ErrorSeverity, KindBuildFailure, "",
		fmt.Sprintf("build validation failed with %d errors", errorCount),
		zap.Int("error_count", errorCount),
		zap.String("first_error", firstError),
	)
}

// SafetyBreach records a batch safety score landing under the floor.
func (r *Recorder) SafetyBreach(batchNumber int, score, floor float64) {
	r.record(schema.WarnSeverity, KindSafetyBreach, "",
		fmt.Sprintf("batch %d safety score %.2f under floor %.2f", batchNumber, score, floor),
		zap.Int("batch_number", batchNumber),
		zap.Float64("safety_score", score),
		zap.Float64("floor", floor),
	)
}

// CheckpointAbort records a mid-batch compiler checkpoint cutting a batch short.
func (r *Recorder) CheckpointAbort(batchNumber, newErrors int) {
	r.record(schema.WarnSeverity, KindCheckpointAbort, "",
		fmt.Sprintf("batch %d aborted at checkpoint: %d new compiler errors", batchNumber, newErrors),
		zap.Int("batch_number", batchNumber),
		zap.Int("new_errors", newErrors),
	)
}

// BackupIntegrity records an unrecoverable backup problem. This is the one
// fatal event kind: the caller is expected to stop the run afterwards.
func (r *Recorder) BackupIntegrity(filePath string, err error) {
	r.record(schema.FatalSeverity, KindBackupIntegrity, filePath,
		fmt.Sprintf("backup integrity failure: %v", err))
}

// Adaptation records a knob change between batches.
func (r *Recorder) Adaptation(batchNumber int, before, after schema.AdaptiveConfig, reason string) {
	r.record(schema.InfoSeverity, KindAdaptation, "", reason,
		zap.Int("batch_number", batchNumber),
		zap.Int("batch_size_before", before.MaxFilesPerBatch),
		zap.Int("batch_size_after", after.MaxFilesPerBatch),
		zap.Float64("threshold_before", before.ConfidenceThreshold),
		zap.Float64("threshold_after", after.ConfidenceThreshold),
		zap.Int("validation_frequency_after", after.ValidationFrequency),
	)
}

// Close flushes buffered events to the log file.
func (r *Recorder) Close() error {
	return r.logger.Sync()
}

// record writes one event to the log, mirrors warn-or-worse to the console,
// and forwards a row to the history store sink when attached.
func (r *Recorder) record(severity schema.Severity, kind, filePath, message string, fields ...zap.Field) {
	fields = append(fields, zap.String("kind", kind), zap.String("severity", string(severity)))
	if filePath != "" {
		fields = append(fields, zap.String("file_path", filePath))
	}

	switch severity {
	case schema.WarnSeverity:
		r.logger.Warn(message, fields...)
	case schema.ErrorSeverity, schema.FatalSeverity:
		// Fatal maps onto the error level; the orchestrator owns process exit.
		r.logger.Error(message, fields...)
	default:
		r.logger.Info(message, fields...)
	}

	if severity != schema.InfoSeverity {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %s\n", kind, message)
	}

	if r.sink == nil {
		return
	}
	record := schema.SafetyEventRecord{
		RunID:     r.runID,
		EventTime: time.Now().UTC(),
		Severity:  string(severity),
		Kind:      kind,
		Message:   message,
	}
	if filePath != "" {
		record.FilePath = &filePath
	}
	if err := r.sink.RecordSafetyEvent(record); err != nil {
		contract.LogWarn("recording safety event", err)
	}
}
