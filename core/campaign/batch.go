package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alchm-kitchen/typesweep/core/classify"
	"github.com/alchm-kitchen/typesweep/core/txn"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/scan"
	"github.com/alchm-kitchen/typesweep/schema"
)

// inflightBatch is the working state of the batch currently moving through
// the execute and validate phases.
type inflightBatch struct {
	files   []schema.FileCandidate
	tx      *txn.Transaction
	metrics schema.BatchMetrics
	started time.Time

	scores  []float64 // safety scores of every evaluated replacement
	penalty float64   // accumulated deductions from checkpoint and build failures

	// terminalReason, when set, ends the run in the aborted state after the
	// batch metrics are sealed. Only pilot failures set it.
	terminalReason string
}

// executeBatch runs the profile-appropriate execution strategy. The pilot
// wraps the whole batch in consolidated before/after build gates; the full
// profile applies file by file with periodic mid-batch checkpoints. Dry runs
// always take the full path since it skips every build interaction.
func (e *Engine) executeBatch(ctx context.Context, rs *runState, ac schema.AdaptiveConfig) error {
	if e.cfg.Profile == schema.PilotProfile && !e.cfg.DryRun {
		return e.executePilotBatch(ctx, rs, ac)
	}
	return e.executeFullBatch(ctx, rs, ac)
}

// executeFullBatch processes each candidate file in turn: classify its
// occurrences, keep the actionable ones that clear the safety score, back the
// file up and substitute. Every ValidationFrequency files a compiler
// checkpoint bounds the damage a runaway batch can do; error growth beyond
// the slack aborts the remainder, leaving unattempted files for later batches.
func (e *Engine) executeFullBatch(ctx context.Context, rs *runState, ac schema.AdaptiveConfig) error {
	b := rs.inflight
	sinceCheckpoint := 0
	appliedSinceCheckpoint := 0

	for _, cand := range b.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rs.processed[cand.Path] = struct{}{}
		b.metrics.FilesProcessed++
		sinceCheckpoint++

		pending, err := e.evaluateFile(ctx, b, ac, cand)
		if err != nil {
			return err
		}
		if len(pending) > 0 {
			applied, err := e.applyFile(ctx, b, cand.Path, pending)
			if err != nil {
				return err
			}
			appliedSinceCheckpoint += applied
		}

		// --- Mid-batch compiler checkpoint ---
		if e.cfg.DryRun || ac.ValidationFrequency <= 0 {
			continue
		}
		if sinceCheckpoint < ac.ValidationFrequency || appliedSinceCheckpoint == 0 {
			continue
		}
		sinceCheckpoint, appliedSinceCheckpoint = 0, 0

		diags, cerr := e.checker.Check(ctx, e.cfg.ProjectPath)
		if cerr != nil {
			contract.LogWarn("Mid-batch compiler checkpoint did not run", cerr)
			e.recorder.CheckpointAbort(b.metrics.BatchNumber, 0)
			b.penalty += checkpointPenalty
			break
		}
		// The run started from a clean baseline, so every diagnostic is growth.
		if growth := len(diags); growth > e.cfg.Tuning.CheckpointSlack {
			e.recorder.CheckpointAbort(b.metrics.BatchNumber, growth)
			b.penalty += checkpointPenalty
			break
		}
	}
	return nil
}

// executePilotBatch runs the conservative strategy: prove the build is
// healthy, apply the whole batch under one consolidated compiler check, then
// let validateBatch prove health again. Any build failure ends the pilot.
func (e *Engine) executePilotBatch(ctx context.Context, rs *runState, ac schema.AdaptiveConfig) error {
	b := rs.inflight

	// --- 1. Build gate before any mutation ---
	pre := txn.ValidateBuild(ctx, e.checker, e.cfg)
	if !pre.Success {
		e.reportBuildFailure(pre)
		b.metrics.CompilationErrors = pre.ErrorCount
		b.penalty += buildFailurePenalty
		rs.safety.BuildFailures++
		rs.safety.BatchFailures++
		b.terminalReason = "pilot aborted: build validation failed before the batch"
		return nil
	}

	// --- 2. Collect actionable replacements across the batch ---
	var pending []schema.Replacement
	var paths []string
	for _, cand := range b.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rs.processed[cand.Path] = struct{}{}
		b.metrics.FilesProcessed++

		work, err := e.evaluateFile(ctx, b, ac, cand)
		if err != nil {
			return err
		}
		if len(work) > 0 {
			pending = append(pending, work...)
			paths = append(paths, cand.Path)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	// --- 3. Backups, then the consolidated apply ---
	if err := b.tx.Begin(paths); err != nil {
		// No working file has changed yet; the pilot stops rather than
		// proceeding without complete backups.
		contract.LogWarn("Pilot batch backup enrollment failed", err)
		b.terminalReason = fmt.Sprintf("pilot aborted: %v", err)
		return nil
	}
	b.metrics.ReplacementsAttempted = len(pending)

	res, err := b.tx.ProcessBatch(ctx, e.checker, pending)
	if err != nil {
		return err
	}
	if !res.Success {
		first := ""
		if len(res.CompilerErrors) > 0 {
			first = res.CompilerErrors[0]
		}
		e.recorder.BuildFailure(len(res.CompilerErrors), first)
		for _, f := range res.FilesModified {
			e.recorder.Rollback(f, "pilot consolidated check failed")
		}
		b.metrics.CompilationErrors = len(res.CompilerErrors)
		b.metrics.RollbacksPerformed = len(res.FilesModified)
		b.penalty += buildFailurePenalty
		rs.safety.BuildFailures++
		rs.safety.BatchFailures++
		b.terminalReason = "pilot aborted: consolidated compiler check failed"
		return nil
	}
	b.metrics.ReplacementsSuccessful = res.Applied
	return nil
}

// evaluateFile classifies a candidate's occurrences and returns the
// replacements worth acting on: unintentional, confident enough, renderable,
// and clearing the safety score. Scores of rejected replacements still count
// toward the batch safety score so risk that was merely dodged stays visible.
func (e *Engine) evaluateFile(ctx context.Context, b *inflightBatch, ac schema.AdaptiveConfig, cand schema.FileCandidate) ([]schema.Replacement, error) {
	contexts, err := scan.BuildContexts(e.cfg, e.domains, cand)
	if err != nil {
		contract.LogWarn("Skipping unreadable file "+cand.Path, err)
		return nil, nil
	}
	verdicts, err := e.classifier.ClassifyBatch(ctx, contexts)
	if err != nil {
		return nil, err
	}
	b.metrics.AnyTypesAnalyzed += len(contexts)

	var pending []schema.Replacement
	for i, verdict := range verdicts {
		if !e.actionable(verdict, ac) {
			continue
		}
		r, ok := classify.BuildReplacement(cand.Occurrences[i], verdict)
		if !ok {
			continue
		}
		assessment := txn.CalculateSafetyScore(r, contexts[i], 0)
		b.scores = append(b.scores, assessment.Score)
		if !assessment.IsValid {
			contract.LogWarn(fmt.Sprintf("Skipping %s:%d", r.FilePath, r.LineNumber),
				fmt.Errorf("safety score %.2f under %.2f", assessment.Score, txn.DefaultMinSafetyScore))
			continue
		}
		pending = append(pending, r)
	}
	return pending, nil
}

// actionable decides whether a verdict justifies a rewrite under the current
// knobs. The pilot additionally restricts itself to the container categories,
// whose substitutions are the least likely to ripple beyond the mutated line.
func (e *Engine) actionable(verdict schema.Classification, ac schema.AdaptiveConfig) bool {
	if verdict.IsIntentional || verdict.SuggestedReplacement == "" {
		return false
	}
	if verdict.Confidence < ac.ConfidenceThreshold {
		return false
	}
	if e.cfg.Profile == schema.PilotProfile {
		return verdict.Category == schema.ArrayTypeCategory || verdict.Category == schema.RecordTypeCategory
	}
	return true
}

// applyFile backs up one file and applies its pending replacements. A failed
// backup skips the file with every replacement counted as attempted; no
// working file is ever mutated without a durable backup. Returns the number
// of substitutions written.
func (e *Engine) applyFile(ctx context.Context, b *inflightBatch, path string, pending []schema.Replacement) (int, error) {
	if e.cfg.DryRun {
		b.metrics.ReplacementsAttempted += len(pending)
		b.metrics.ReplacementsSuccessful += len(pending)
		return 0, nil
	}

	if err := b.tx.Begin([]string{path}); err != nil {
		contract.LogWarn("Skipping file without a backup "+path, err)
		b.metrics.ReplacementsAttempted += len(pending)
		return 0, nil
	}

	applied := 0
	for _, r := range pending {
		b.metrics.ReplacementsAttempted++
		res, err := b.tx.ApplyReplacement(ctx, e.checker, r)
		if err != nil {
			return applied, err
		}
		if !res.Success {
			contract.LogWarn(fmt.Sprintf("Skipping %s:%d", r.FilePath, r.LineNumber), errors.New(res.Reason))
			continue
		}
		b.metrics.ReplacementsSuccessful++
		applied++
	}
	return applied, nil
}

// validateBatch proves overall health after execution and settles the batch:
// commit on a clean validation, roll every touched file back otherwise. For
// the full profile a failed validation costs one batch; for the pilot it ends
// the run. The returned error is reserved for unrestorable backups.
func (e *Engine) validateBatch(ctx context.Context, rs *runState) error {
	b := rs.inflight
	if b.terminalReason != "" {
		return nil
	}
	if e.cfg.DryRun || len(b.tx.TouchedFiles()) == 0 {
		return nil
	}

	// --- 1. Rollback readiness ---
	// Proven before the expensive build check: if the backups cannot restore,
	// continuing would risk mutations with no undo path.
	if check := b.tx.VerifyRollbackCapability(); !check.Verified {
		for _, p := range check.Problems {
			e.recorder.BackupIntegrity("", errors.New(p))
		}
		return fmt.Errorf("rollback capability check failed: %s", check.Problems[0])
	}

	// --- 2. Build validation ---
	v := txn.ValidateBuild(ctx, e.checker, e.cfg)
	if v.Success {
		b.tx.Commit()
		return nil
	}
	e.reportBuildFailure(v)

	// --- 3. Whole-batch rollback ---
	touched := b.tx.TouchedFiles()
	if err := b.tx.Rollback(); err != nil {
		var integrity *txn.BackupIntegrityError
		if errors.As(err, &integrity) {
			e.recorder.BackupIntegrity(integrity.FilePath, integrity.Err)
		}
		return fmt.Errorf("rolling back batch %d: %w", b.metrics.BatchNumber, err)
	}
	for _, f := range touched {
		e.recorder.Rollback(f, "batch build validation failed")
	}

	b.metrics.ReplacementsSuccessful = 0
	b.metrics.CompilationErrors += v.ErrorCount
	b.metrics.RollbacksPerformed += len(touched)
	b.penalty += buildFailurePenalty
	rs.safety.BuildFailures++
	rs.safety.BatchFailures++
	if e.cfg.Profile == schema.PilotProfile {
		b.terminalReason = "pilot aborted: build validation failed after the batch"
	}
	return nil
}

// reportBuildFailure records a failed build validation in the audit trail.
func (e *Engine) reportBuildFailure(v schema.BuildValidation) {
	first := ""
	if len(v.Errors) > 0 {
		first = v.Errors[0]
	}
	e.recorder.BuildFailure(v.ErrorCount, first)
}
