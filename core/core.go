// Package core has core logic for discovery, classification and campaigns.
//
// Each command-facing operation comes in two shapes: a Get function that
// returns ranked results for embedding callers, and an Execute function
// that prints those results through the configured output writer. Campaign
// execution is Execute-only; it mutates the project and has no embeddable
// read form.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alchm-kitchen/typesweep/core/campaign"
	"github.com/alchm-kitchen/typesweep/core/classify"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/events"
	"github.com/alchm-kitchen/typesweep/internal/outwriter"
	"github.com/alchm-kitchen/typesweep/schema"
)

// ExecutorFunc defines the function signature for executing different
// analysis modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// NewRunID mints a campaign run identifier: a UTC timestamp for coarse
// ordering plus a short random suffix for uniqueness.
func NewRunID() string {
	return fmt.Sprintf("run-%s-%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
}

// GetClassifyResults discovers candidates, classifies every occurrence, and
// returns ranked enriched findings with the elapsed analysis time.
func GetClassifyResults(ctx context.Context, cfg *contract.Config) ([]schema.EnrichedFinding, time.Duration, error) {
	start := time.Now()
	candidates, err := discoverCandidates(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}
	findings, err := classifyCandidates(ctx, cfg, candidates)
	if err != nil {
		return nil, 0, err
	}
	ranked := RankFindings(findings, cfg.ResultLimit)
	return EnrichFindings(ranked), time.Since(start), nil
}

// ExecuteClassify runs the classification preview and prints results.
// It serves as the main entry point for the 'classify' command.
func ExecuteClassify(ctx context.Context, cfg *contract.Config) error {
	findings, duration, err := GetClassifyResults(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintFindings(findings, cfg, duration)
}

// GetDiscoverResults enumerates candidate files and returns them ranked by
// occurrence count with the elapsed scan time.
func GetDiscoverResults(ctx context.Context, cfg *contract.Config) ([]schema.EnrichedCandidate, time.Duration, error) {
	start := time.Now()
	candidates, err := discoverCandidates(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}
	ranked := RankCandidates(candidates, cfg.ResultLimit)
	return EnrichCandidates(ranked), time.Since(start), nil
}

// ExecuteDiscover runs candidate discovery and prints results.
// It serves as the main entry point for the 'discover' command.
func ExecuteDiscover(ctx context.Context, cfg *contract.Config) error {
	candidates, duration, err := GetDiscoverResults(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintCandidates(candidates, cfg, duration)
}

// GetTargetResults samples the discovered candidate set and recommends a
// reduction target with milestones. The store is optional; when present it
// contributes a trailing success-rate signal from past runs.
func GetTargetResults(ctx context.Context, cfg *contract.Config, store contract.CampaignStore) (*schema.CampaignTarget, time.Duration, error) {
	start := time.Now()
	candidates, err := discoverCandidates(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}
	target := campaign.RecommendTarget(cfg, candidates, store)
	return &target, time.Since(start), nil
}

// ExecuteTarget runs the target recommendation and prints results.
// It serves as the main entry point for the 'target' command.
func ExecuteTarget(ctx context.Context, cfg *contract.Config, store contract.CampaignStore) error {
	target, duration, err := GetTargetResults(ctx, cfg, store)
	if err != nil {
		return err
	}
	return outwriter.PrintTarget(target, cfg, duration)
}

// ExecuteRules displays the classification category registry.
// This is a static display that does not require project analysis.
func ExecuteRules(cfg *contract.Config) error {
	return outwriter.PrintRules(classify.Rules(cfg.CategoryCaps), cfg)
}

// GetHistoryResults returns recorded campaign runs, newest first, truncated
// to limit when limit is positive.
func GetHistoryResults(store contract.CampaignStore, limit int) ([]schema.CampaignRunRecord, error) {
	if store == nil {
		return nil, errors.New("campaign history is disabled; configure a history backend to enable it")
	}
	runs, err := store.GetAllRuns()
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartTime.After(runs[j].StartTime)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// ExecuteHistoryList prints recorded campaign runs.
// It serves as the main entry point for the 'history list' command.
func ExecuteHistoryList(cfg *contract.Config, store contract.CampaignStore) error {
	runs, err := GetHistoryResults(store, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.PrintRunHistory(runs, cfg)
}

// ExecuteCampaign runs a full or pilot campaign to a terminal state, saves
// the per-run report files and prints the report summary. The store may be
// nil when history tracking is disabled.
// It serves as the main entry point for the 'run' and 'pilot' commands.
func ExecuteCampaign(ctx context.Context, cfg *contract.Config, store contract.CampaignStore) error {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}

	runID := NewRunID()
	checker := contract.NewLocalTypeChecker()
	checker.ApplyConfig(cfg)

	recorder, err := events.NewRecorder(cfg.EventLog, runID, store)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer func() {
		if cerr := recorder.Close(); cerr != nil {
			contract.LogWarn("Closing event log", cerr)
		}
	}()

	engine := campaign.NewEngine(cfg, checker, contract.NewPathDomainProvider(), recorder, store, runID)
	report, runErr := engine.Run(ctx)
	if report.ID == "" {
		// The run stopped before producing a report (failed discovery, dirty
		// baseline, cancellation before the first batch).
		return runErr
	}

	if jsonPath, mdPath, err := outwriter.SaveReportFiles(&report, cfg.ReportsDir); err != nil {
		contract.LogWarn("Saving report files", err)
	} else {
		fmt.Fprintf(os.Stderr, "💾 Report saved to %s and %s\n", jsonPath, mdPath)
	}
	if err := outwriter.PrintCampaignReport(&report, cfg); err != nil {
		return err
	}
	return runErr
}
