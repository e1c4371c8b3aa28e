package campaign

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/scan"
	"github.com/alchm-kitchen/typesweep/schema"
)

// Target shaping. The baseline is nudged by what the sampled composition
// says about how much of the codebase rewrites cheaply, then clamped so a
// recommendation never promises the impossible in either direction.
const (
	baselinePercent  = 15.0
	minTargetPercent = 5.0
	maxTargetPercent = 40.0

	testHeavyBar   = 30.0 // test-file share treated as test-heavy
	testHeavyNudge = 4.0
	testLightBar   = 10.0
	testLightNudge = 2.0

	containerHeavyBar   = 40.0 // array and record share that rewrites cleanly
	containerHeavyNudge = 5.0
	containerLightBar   = 15.0
	containerLightNudge = 3.0

	paramHeavyBar   = 30.0 // signature share that raises breakage risk
	paramHeavyNudge = 4.0

	historyWindow         = 10 // trailing batch rows consulted across past runs
	historySuccessHighBar = 0.9
	historyHighNudge      = 2.0
	historySuccessLowBar  = 0.6
	historyLowNudge       = 5.0
)

// Batch effort estimation bounds. The actionable share of sampled
// occurrences is held inside a sane band so one odd sample cannot produce
// absurd milestone estimates.
const (
	minActionShare = 0.25
	maxActionShare = 0.75
)

// paramAnnotationRe spots a ": any" inside a parameter list.
var paramAnnotationRe = regexp.MustCompile(`\([^)]*\w+\s*:\s*any\b[^)]*\)`)

// RecommendTarget analyzes a sample of the discovered candidates and derives
// a reduction target with milestone estimates. The store, when attached,
// contributes a trailing success signal from past runs; a nil store or a
// store error simply drops that signal.
func RecommendTarget(cfg *contract.Config, candidates []schema.FileCandidate, store contract.CampaignStore) schema.CampaignTarget {
	target := schema.CampaignTarget{}
	for _, c := range candidates {
		target.TotalOccurrences += len(c.Occurrences)
	}
	if len(candidates) == 0 {
		target.Reasoning = []string{"no occurrences discovered; nothing to target"}
		return target
	}

	// --- 1. Sample composition ---
	// Candidates arrive sorted by path, so the sample is deterministic.
	sample := candidates
	sampleSize := cfg.SampleSize
	if sampleSize <= 0 {
		sampleSize = contract.DefaultSampleSize
	}
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	target.SampledFiles = len(sample)

	var sampled, testOcc, containerOcc, paramOcc int
	for _, c := range sample {
		isTest := scan.IsTestPath(c.Path)
		for _, occ := range c.Occurrences {
			sampled++
			if isTest {
				testOcc++
			}
			switch occ.Pattern {
			case scan.PatternArray, scan.PatternGenericArray, scan.PatternRecord, scan.PatternIndexSignature:
				containerOcc++
			case scan.PatternAnnotation:
				if paramAnnotationRe.MatchString(occ.Line) {
					paramOcc++
				}
			}
		}
	}
	if sampled > 0 {
		target.TestFilePercent = 100 * float64(testOcc) / float64(sampled)
		target.ArrayRecordPercent = 100 * float64(containerOcc) / float64(sampled)
		target.FunctionParamPercent = 100 * float64(paramOcc) / float64(sampled)
	}

	// --- 2. Baseline plus composition nudges ---
	percent := baselinePercent
	reasons := []string{fmt.Sprintf("baseline %.0f%% of %d discovered occurrences", baselinePercent, target.TotalOccurrences)}

	switch {
	case target.TestFilePercent >= testHeavyBar:
		percent += testHeavyNudge
		reasons = append(reasons, fmt.Sprintf("+%.0f: %.0f%% of occurrences sit in test files, the cheapest place to be wrong", testHeavyNudge, target.TestFilePercent))
	case target.TestFilePercent <= testLightBar:
		percent -= testLightNudge
		reasons = append(reasons, fmt.Sprintf("-%.0f: only %.0f%% of occurrences sit in test files", testLightNudge, target.TestFilePercent))
	}

	switch {
	case target.ArrayRecordPercent >= containerHeavyBar:
		percent += containerHeavyNudge
		reasons = append(reasons, fmt.Sprintf("+%.0f: %.0f%% are container annotations that rewrite cleanly", containerHeavyNudge, target.ArrayRecordPercent))
	case target.ArrayRecordPercent <= containerLightBar:
		percent -= containerLightNudge
		reasons = append(reasons, fmt.Sprintf("-%.0f: only %.0f%% are container annotations", containerLightNudge, target.ArrayRecordPercent))
	}

	if target.FunctionParamPercent >= paramHeavyBar {
		percent -= paramHeavyNudge
		reasons = append(reasons, fmt.Sprintf("-%.0f: %.0f%% are parameter annotations whose rewrites can break callers", paramHeavyNudge, target.FunctionParamPercent))
	}

	// --- 3. Trailing history signal ---
	if store != nil {
		if rate, batches := trailingSuccessRate(store); batches > 0 {
			switch {
			case rate >= historySuccessHighBar:
				percent += historyHighNudge
				reasons = append(reasons, fmt.Sprintf("+%.0f: the last %d recorded batches succeeded at %.0f%%", historyHighNudge, batches, 100*rate))
			case rate < historySuccessLowBar:
				percent -= historyLowNudge
				reasons = append(reasons, fmt.Sprintf("-%.0f: the last %d recorded batches succeeded at only %.0f%%", historyLowNudge, batches, 100*rate))
			}
		}
	}

	target.RecommendedPercent = math.Min(maxTargetPercent, math.Max(minTargetPercent, percent))
	target.Reasoning = reasons

	// --- 4. Milestones ---
	perBatch := estimateReplacementsPerBatch(cfg, sampled, len(sample), containerOcc+paramOcc)
	fullTarget := int(math.Ceil(float64(target.TotalOccurrences) * target.RecommendedPercent / 100))
	for _, pct := range []int{25, 50, 75, 100} {
		replacements := int(math.Ceil(float64(fullTarget) * float64(pct) / 100))
		target.Milestones = append(target.Milestones, schema.Milestone{
			Percent:          pct,
			Replacements:     replacements,
			EstimatedBatches: int(math.Ceil(float64(replacements) / float64(perBatch))),
		})
	}
	return target
}

// estimateReplacementsPerBatch projects how many replacements one batch of
// the configured size should land, from the sampled occurrence density and
// the share of occurrences that look actionable.
func estimateReplacementsPerBatch(cfg *contract.Config, sampledOccurrences, sampledFiles, actionableOccurrences int) int {
	if sampledFiles == 0 || sampledOccurrences == 0 {
		return 1
	}
	occPerFile := float64(sampledOccurrences) / float64(sampledFiles)
	actionShare := float64(actionableOccurrences) / float64(sampledOccurrences)
	actionShare = math.Min(maxActionShare, math.Max(minActionShare, actionShare))

	batchSize := cfg.InitialAdaptiveConfig().MaxFilesPerBatch
	perBatch := int(math.Round(occPerFile * actionShare * float64(batchSize)))
	return max(1, perBatch)
}

// trailingSuccessRate folds the most recent recorded batches across past
// runs into one success rate. Store errors and empty histories report zero
// batches so the caller can skip the signal.
func trailingSuccessRate(store contract.CampaignStore) (float64, int) {
	records, err := store.GetAllBatchMetrics()
	if err != nil || len(records) == 0 {
		return 0, 0
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})
	if len(records) > historyWindow {
		records = records[len(records)-historyWindow:]
	}

	var attempted, successful int
	for _, r := range records {
		attempted += int(r.ReplacementsAttempted)
		successful += int(r.ReplacementsSuccessful)
	}
	if attempted == 0 {
		return 0, 0
	}
	return float64(successful) / float64(attempted), len(records)
}
