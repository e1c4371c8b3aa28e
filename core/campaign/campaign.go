// Package campaign drives the adaptive batch loop that eliminates loose
// "any" annotations from a TypeScript project.
//
// A run walks a fixed state machine: select a batch of unprocessed candidate
// files, execute replacements against them under a backup transaction,
// validate overall build health, adapt the orchestration knobs from trailing
// batch outcomes, then loop. The loop is strictly sequential; no two batches
// are ever in flight at once, and each file is attempted at most once per run.
package campaign

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/alchm-kitchen/typesweep/core/classify"
	"github.com/alchm-kitchen/typesweep/core/txn"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/events"
	"github.com/alchm-kitchen/typesweep/internal/scan"
	"github.com/alchm-kitchen/typesweep/schema"
)

// Loop-level safety knobs. These are fixed properties of the orchestration;
// the tunable policy numbers, the safety floor and checkpoint slack among
// them, live in the config's CampaignTuning.
const (
	// interBatchPause keeps batches from hammering the compiler back to back.
	interBatchPause = 500 * time.Millisecond

	// checkpointPenalty and buildFailurePenalty depress a batch safety score
	// after a checkpoint abort or a failed build validation.
	checkpointPenalty   = 0.25
	buildFailurePenalty = 0.25

	// maxConsecutiveLowSafety trips the circuit breaker once that many
	// batches in a row score under the safety floor.
	maxConsecutiveLowSafety = 3
)

// Engine orchestrates one campaign run. It owns no long-lived resources;
// everything it needs arrives through the constructor, and a fresh engine is
// built per run.
type Engine struct {
	cfg        *contract.Config
	checker    contract.TypeChecker
	domains    contract.DomainProvider
	classifier *classify.Engine
	recorder   *events.Recorder
	store      contract.CampaignStore // optional history mirror, may be nil
	runID      string
	pause      time.Duration
}

// NewEngine wires a campaign engine for one run identified by runID.
func NewEngine(cfg *contract.Config, checker contract.TypeChecker, domains contract.DomainProvider, recorder *events.Recorder, store contract.CampaignStore, runID string) *Engine {
	return &Engine{
		cfg:        cfg,
		checker:    checker,
		domains:    domains,
		classifier: classify.NewEngine(cfg.CategoryCaps),
		recorder:   recorder,
		store:      store,
		runID:      runID,
		pause:      interBatchPause,
	}
}

// RunID returns the identifier stamped on events and history rows.
func (e *Engine) RunID() string {
	return e.runID
}

// runState carries everything that survives across batches within one run.
type runState struct {
	candidates         []schema.FileCandidate
	processed          map[string]struct{} // candidate paths already attempted
	batchNumber        int
	history            []schema.BatchMetrics
	safety             schema.SafetyMetrics
	totalOccurrences   int
	targetReplacements int
	startTime          time.Time
	inflight           *inflightBatch
}

func newRunState(candidates []schema.FileCandidate, ac schema.AdaptiveConfig) *runState {
	rs := &runState{
		candidates: candidates,
		processed:  make(map[string]struct{}),
		startTime:  time.Now(),
	}
	for _, c := range candidates {
		rs.totalOccurrences += len(c.Occurrences)
	}
	rs.targetReplacements = int(math.Ceil(float64(rs.totalOccurrences) * ac.TargetReductionPercent / 100))
	return rs
}

// Run executes the campaign to a terminal state and returns its report.
// The returned error is reserved for conditions that stopped the run from
// proceeding safely (failed discovery, a dirty baseline, an unrestorable
// backup, cancellation); policy terminations such as the safety circuit
// breaker end the run with a nil error and an aborted final state.
func (e *Engine) Run(ctx context.Context) (schema.CampaignReport, error) {
	startKnobs := e.cfg.InitialAdaptiveConfig()
	if e.cfg.Profile == schema.PilotProfile {
		startKnobs = clampPilot(startKnobs)
	}
	ac := startKnobs

	// --- 1. Discovery ---
	candidates, err := scan.NewScanner(e.cfg).DiscoverCandidates(ctx)
	if err != nil {
		return schema.CampaignReport{}, fmt.Errorf("discovering candidates: %w", err)
	}
	rs := newRunState(candidates, ac)

	// --- 2. Baseline compiler health ---
	// A campaign only runs against a clean project: post-batch validation
	// treats every compiler error as batch damage, which is meaningless when
	// errors predate the run. Dry runs skip the gate since they never mutate.
	if !e.cfg.DryRun {
		diags, err := e.checker.Check(ctx, e.cfg.ProjectPath)
		if err != nil {
			return schema.CampaignReport{}, fmt.Errorf("baseline compiler check: %w", err)
		}
		if len(diags) > 0 {
			return schema.CampaignReport{}, fmt.Errorf("project has %d pre-existing compiler errors; a campaign needs a clean baseline", len(diags))
		}
	}

	// --- 3. Run bookkeeping ---
	e.recorder.RunStarted(e.cfg.Profile, ac)
	e.trackBeginRun(startKnobs, rs.startTime)

	// --- 4. Orchestration loop ---
	state := schema.BatchSelectState
	finalState := schema.CompleteState
	var stopReason string
	var runErr error

loop:
	for {
		if err := ctx.Err(); err != nil {
			finalState, stopReason, runErr = schema.AbortedState, "run cancelled: "+err.Error(), err
			break loop
		}

		switch state {
		case schema.BatchSelectState:
			if s, reason, stop := e.shouldStop(rs); stop {
				finalState, stopReason = s, reason
				break loop
			}
			batch := rs.selectBatch(ac.MaxFilesPerBatch)
			if len(batch) == 0 {
				finalState, stopReason = schema.CompleteState, "no unprocessed candidates remain"
				break loop
			}
			rs.beginBatch(batch, e.cfg.ProjectPath, e.cfg.BackupDir)
			e.recorder.BatchStarted(rs.batchNumber, len(batch))
			state = schema.BatchExecuteState

		case schema.BatchExecuteState:
			if err := e.executeBatch(ctx, rs, ac); err != nil {
				finalState, stopReason, runErr = schema.AbortedState, err.Error(), err
				break loop
			}
			state = schema.BatchValidateState

		case schema.BatchValidateState:
			if err := e.validateBatch(ctx, rs); err != nil {
				finalState, stopReason, runErr = schema.AbortedState, err.Error(), err
				break loop
			}
			if reason := rs.inflight.terminalReason; reason != "" {
				e.finishBatch(rs)
				finalState, stopReason = schema.AbortedState, reason
				break loop
			}
			state = schema.AdaptState

		case schema.AdaptState:
			e.finishBatch(rs)
			ac = e.adaptKnobs(rs, ac)
			state = schema.BatchSelectState
			if e.pause > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(e.pause):
				}
			}
		}
	}

	// --- 5. Closeout ---
	results := rs.results(finalState, stopReason)
	e.recorder.RunEnded(finalState, stopReason)
	e.trackEndRun(results)
	return BuildReport(e.runID, e.cfg.Profile, startKnobs, ac, results, rs.history, rs.safety), runErr
}

// selectBatch picks up to maxFiles unprocessed candidates in discovery order.
func (rs *runState) selectBatch(maxFiles int) []schema.FileCandidate {
	batch := make([]schema.FileCandidate, 0, maxFiles)
	for _, c := range rs.candidates {
		if len(batch) == maxFiles {
			break
		}
		if _, done := rs.processed[c.Path]; done {
			continue
		}
		batch = append(batch, c)
	}
	return batch
}

// beginBatch opens the next batch with a fresh backup transaction.
func (rs *runState) beginBatch(files []schema.FileCandidate, projectPath, backupDir string) {
	rs.batchNumber++
	rs.inflight = &inflightBatch{
		files:   files,
		tx:      txn.NewTransaction(projectPath, backupDir),
		metrics: schema.BatchMetrics{BatchNumber: rs.batchNumber},
		started: time.Now(),
	}
}

// shouldStop evaluates the terminal conditions checked before each batch, in
// priority order: target reached, safety circuit breaker, batch cap.
func (e *Engine) shouldStop(rs *runState) (schema.CampaignState, string, bool) {
	successes := rs.successfulReplacements()
	if rs.targetReplacements > 0 && successes >= rs.targetReplacements {
		return schema.CompleteState,
			fmt.Sprintf("reduction target reached: %d replacements against a target of %d", successes, rs.targetReplacements), true
	}
	if low := trailingLowSafety(rs.history, e.cfg.Tuning.SafetyFloor); low >= maxConsecutiveLowSafety {
		return schema.AbortedState,
			fmt.Sprintf("circuit breaker: %d consecutive batches under safety floor %.2f", low, e.cfg.Tuning.SafetyFloor), true
	}
	if limit := e.maxBatches(); rs.batchNumber >= limit {
		return schema.CompleteState, fmt.Sprintf("batch cap of %d reached", limit), true
	}
	return "", "", false
}

func (e *Engine) maxBatches() int {
	if e.cfg.MaxBatches > 0 {
		return e.cfg.MaxBatches
	}
	return contract.DefaultMaxBatches
}

// adaptKnobs runs the between-batch adaptation and records any change.
func (e *Engine) adaptKnobs(rs *runState, ac schema.AdaptiveConfig) schema.AdaptiveConfig {
	next, reason := Adapt(e.cfg.Tuning, ac, rs.history)
	if e.cfg.Profile == schema.PilotProfile {
		next = clampPilot(next)
	}
	if next != ac {
		e.recorder.Adaptation(rs.batchNumber, ac, next, reason)
	}
	return next
}

// finishBatch seals the in-flight batch: final score, events, history row.
func (e *Engine) finishBatch(rs *runState) {
	b := rs.inflight
	b.metrics.ExecutionTime = time.Since(b.started)
	b.metrics.SafetyScore = batchSafety(b.scores, b.penalty)
	if floor := e.cfg.Tuning.SafetyFloor; b.metrics.SafetyScore < floor {
		e.recorder.SafetyBreach(b.metrics.BatchNumber, b.metrics.SafetyScore, floor)
	}
	e.recorder.BatchCompleted(b.metrics)
	e.trackBatch(b.metrics)
	rs.history = append(rs.history, b.metrics)
	rs.safety.RollbacksPerformed += b.metrics.RollbacksPerformed
	rs.safety.CompilationErrors += b.metrics.CompilationErrors
	rs.inflight = nil
}

// successfulReplacements sums confirmed replacements across finished batches.
func (rs *runState) successfulReplacements() int {
	total := 0
	for _, m := range rs.history {
		total += m.ReplacementsSuccessful
	}
	return total
}

// trailingLowSafety counts the unbroken run of most-recent batches whose
// safety score sits under the floor.
func trailingLowSafety(history []schema.BatchMetrics, floor float64) int {
	low := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].SafetyScore >= floor {
			break
		}
		low++
	}
	return low
}

// batchSafety folds per-replacement scores and accumulated penalties into the
// batch score. A batch that evaluated nothing is vacuously safe.
func batchSafety(scores []float64, penalty float64) float64 {
	if len(scores) == 0 {
		return schema.Clamp01(1 - penalty)
	}
	return schema.Clamp01(schema.Mean(scores) - penalty)
}

// results summarizes the finished run from its batch history.
func (rs *runState) results(finalState schema.CampaignState, stopReason string) schema.CampaignResults {
	res := schema.CampaignResults{
		BatchesExecuted:    len(rs.history),
		TargetReplacements: rs.targetReplacements,
		FinalState:         finalState,
		StopReason:         stopReason,
		Duration:           time.Since(rs.startTime),
	}
	for _, m := range rs.history {
		res.FilesProcessed += m.FilesProcessed
		res.AnyTypesAnalyzed += m.AnyTypesAnalyzed
		res.ReplacementsSuccessful += m.ReplacementsSuccessful
		res.RollbacksPerformed += m.RollbacksPerformed
	}
	if rs.targetReplacements > 0 {
		res.AchievedPercentOfTarget = 100 * float64(res.ReplacementsSuccessful) / float64(rs.targetReplacements)
	}
	return res
}

// --- History store tracking. Failures degrade to warnings: a run must not
// die because its history store hiccuped. ---

func (e *Engine) trackBeginRun(ac schema.AdaptiveConfig, start time.Time) {
	if e.store == nil {
		return
	}
	params := map[string]any{
		"max_files_per_batch":      ac.MaxFilesPerBatch,
		"target_reduction_percent": ac.TargetReductionPercent,
		"confidence_threshold":     ac.ConfidenceThreshold,
		"safety_level":             string(ac.SafetyLevel),
		"validation_frequency":     ac.ValidationFrequency,
		"dry_run":                  e.cfg.DryRun,
	}
	if err := e.store.BeginRun(e.runID, e.cfg.Profile, start, params); err != nil {
		contract.LogWarn("Campaign history BeginRun failed", err)
	}
}

func (e *Engine) trackBatch(m schema.BatchMetrics) {
	if e.store == nil {
		return
	}
	if err := e.store.RecordBatch(e.runID, m); err != nil {
		contract.LogWarn("Campaign history RecordBatch failed", err)
	}
}

func (e *Engine) trackEndRun(results schema.CampaignResults) {
	if e.store == nil {
		return
	}
	if err := e.store.EndRun(e.runID, time.Now(), results.FinalState, results.StopReason, results); err != nil {
		contract.LogWarn("Campaign history EndRun failed", err)
	}
}
