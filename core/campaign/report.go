package campaign

import (
	"fmt"
	"strings"
	"time"

	"github.com/alchm-kitchen/typesweep/schema"
)

// Recommendation bars for the after-run summary.
const (
	lowRunSuccessBar = 0.7
)

// BuildReport assembles the persisted run summary from the engine's final
// state. It performs no I/O; rendering and storage live with the callers.
func BuildReport(runID string, profile schema.CampaignProfile, startKnobs, finalKnobs schema.AdaptiveConfig,
	results schema.CampaignResults, history []schema.BatchMetrics, safety schema.SafetyMetrics) schema.CampaignReport {
	report := schema.CampaignReport{
		ID:                 runID,
		Timestamp:          time.Now().UTC(),
		Profile:            profile,
		Configuration:      startKnobs,
		FinalConfiguration: finalKnobs,
		Results:            results,
		BatchResults:       history,
		SafetyMetrics:      safety,
	}
	report.Recommendations = buildRecommendations(results, history, safety)
	return report
}

// buildRecommendations derives next-step advice from the run outcome. The
// list is short on purpose: one line per signal that actually fired.
func buildRecommendations(results schema.CampaignResults, history []schema.BatchMetrics, safety schema.SafetyMetrics) []string {
	var recs []string

	if results.FinalState == schema.AbortedState {
		recs = append(recs, "the run aborted; review the last batches in the event log before rerunning, ideally with a smaller batch size")
	}
	if safety.BuildFailures > 0 {
		recs = append(recs, fmt.Sprintf("%d build validation failures were rolled back; review the event log before raising the batch size", safety.BuildFailures))
	}

	if rate, attempts := runSuccessRate(history); attempts > 0 && rate < lowRunSuccessBar {
		recs = append(recs, fmt.Sprintf("only %.0f%% of attempted replacements survived; raise the confidence threshold or narrow the source dirs", 100*rate))
	}

	switch {
	case results.TargetReplacements > 0 && results.AchievedPercentOfTarget >= 100:
		recs = append(recs, "target reached; a follow-up run can raise the reduction target")
	case strings.HasPrefix(results.StopReason, "batch cap"):
		recs = append(recs, fmt.Sprintf("the batch cap ended the run at %.0f%% of target; raise --max-batches to continue", results.AchievedPercentOfTarget))
	}

	if results.FinalState == schema.CompleteState && safety.BuildFailures == 0 && results.RollbacksPerformed == 0 && results.ReplacementsSuccessful > 0 {
		recs = append(recs, "no rollbacks were needed; the next run can start from a larger batch size")
	}

	if len(recs) == 0 {
		recs = append(recs, "campaign health is good; keep the current knobs")
	}
	return recs
}

// runSuccessRate folds all batches into one attempted-vs-successful rate.
func runSuccessRate(history []schema.BatchMetrics) (float64, int) {
	var attempted, successful int
	for _, m := range history {
		attempted += m.ReplacementsAttempted
		successful += m.ReplacementsSuccessful
	}
	if attempted == 0 {
		return 0, 0
	}
	return float64(successful) / float64(attempted), attempted
}
