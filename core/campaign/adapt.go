package campaign

import (
	"fmt"
	"math"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// Adaptation windows and rule bars. The bars define the rules themselves and
// stay fixed; the stepped values (shrink and growth factors, threshold steps,
// the safety floor) come from the tuning policy. Every knob moves by at most
// one step per adaptation, so two quiet batches always undo one bad one
// gradually instead of oscillating.
const (
	adaptWindow = 3 // trailing batches consulted

	minValidationFrequency = 3

	highSafetyBar       = 0.9 // trailing safety above this allows growth
	highSuccessBar      = 0.8 // trailing success required for growth
	lowSuccessBar       = 0.5 // trailing success below this raises the threshold
	frequencySafetyBar  = 0.8 // trailing safety below this tightens checkpoints
	thresholdRelaxFloor = 0.7 // the threshold never relaxes below this
)

// Adapt derives the next batch's knobs from the trailing batch outcomes under
// the given tuning policy. It returns the current config unchanged when no
// rule fires; otherwise the returned reason lists every adjustment for the
// audit trail.
func Adapt(tun schema.CampaignTuning, current schema.AdaptiveConfig, history []schema.BatchMetrics) (schema.AdaptiveConfig, string) {
	if len(history) == 0 {
		return current, ""
	}
	window := history
	if len(window) > adaptWindow {
		window = window[len(window)-adaptWindow:]
	}

	var safetySum, successSum float64
	for _, m := range window {
		safetySum += m.SafetyScore
		successSum += m.SuccessRate()
	}
	avgSafety := safetySum / float64(len(window))
	avgSuccess := successSum / float64(len(window))

	next := current
	var reasons []string
	raiseThreshold := false

	// --- 1. Batch size from trailing safety ---
	switch {
	case avgSafety < tun.SafetyFloor:
		next.MaxFilesPerBatch = max(tun.MinBatchSize, int(float64(current.MaxFilesPerBatch)*tun.ShrinkFactor))
		raiseThreshold = true
		reasons = append(reasons, fmt.Sprintf("trailing safety %.2f under %.2f: batch size down to %d",
			avgSafety, tun.SafetyFloor, next.MaxFilesPerBatch))
	case avgSafety > highSafetyBar && avgSuccess > highSuccessBar:
		next.MaxFilesPerBatch = min(contract.MaxBatchSize, int(float64(current.MaxFilesPerBatch)*tun.GrowFactor))
		next.ConfidenceThreshold = roundKnob(math.Max(thresholdRelaxFloor, current.ConfidenceThreshold-tun.ThresholdStepDown))
		reasons = append(reasons, fmt.Sprintf("trailing safety %.2f and success %.2f: batch size up to %d, threshold relaxed to %.2f",
			avgSafety, avgSuccess, next.MaxFilesPerBatch, next.ConfidenceThreshold))
	}

	// --- 2. Threshold from trailing success ---
	if avgSuccess < lowSuccessBar {
		raiseThreshold = true
		reasons = append(reasons, fmt.Sprintf("trailing success rate %.2f under %.2f", avgSuccess, lowSuccessBar))
	}
	if raiseThreshold {
		// At most one step regardless of how many rules asked for it.
		next.ConfidenceThreshold = roundKnob(math.Min(contract.MaxConfidenceThreshold, current.ConfidenceThreshold+tun.ThresholdStepUp))
	}

	// --- 3. Checkpoint cadence from trailing safety ---
	if avgSafety < frequencySafetyBar && current.ValidationFrequency > minValidationFrequency {
		next.ValidationFrequency = current.ValidationFrequency - 1
		reasons = append(reasons, fmt.Sprintf("trailing safety %.2f under %.2f: checkpoint every %d files",
			avgSafety, frequencySafetyBar, next.ValidationFrequency))
	}

	if len(reasons) == 0 {
		return current, ""
	}
	return next, strings.Join(reasons, "; ")
}

// Pilot bounds. The pilot keeps its batches inside a fixed window and never
// drops its proof burden, whatever adaptation suggests.
const (
	pilotMinBatch      = 10
	pilotMaxBatch      = 15
	pilotMinConfidence = 0.8
)

// clampPilot pins the knobs into the pilot's fixed operating window.
func clampPilot(ac schema.AdaptiveConfig) schema.AdaptiveConfig {
	ac.MaxFilesPerBatch = min(pilotMaxBatch, max(pilotMinBatch, ac.MaxFilesPerBatch))
	ac.ConfidenceThreshold = math.Max(pilotMinConfidence, ac.ConfidenceThreshold)
	return ac
}

// roundKnob keeps stepped knob values at two decimals so repeated float
// steps cannot drift.
func roundKnob(v float64) float64 {
	return math.Round(v*100) / 100
}
