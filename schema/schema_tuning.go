package schema

// CampaignTuning carries the adaptation policy numbers: when batches shrink
// or grow and by how much, how far the confidence threshold steps, and how
// much compiler-error growth a mid-batch checkpoint tolerates. The defaults
// are empirical, not derived, so projects can override them through the
// `tuning` section of the config file.
type CampaignTuning struct {
	SafetyFloor       float64 // scores under this count as unsafe, for both shrinking and the circuit breaker
	ShrinkFactor      float64 // batch size multiplier after a low-safety window
	GrowFactor        float64 // batch size multiplier after a clean window
	ThresholdStepUp   float64 // confidence raise when safety or success degrades
	ThresholdStepDown float64 // confidence relaxation after a clean window
	MinBatchSize      int     // shrinking never drops a batch below this many files
	CheckpointSlack   int     // compiler-error growth tolerated at a mid-batch checkpoint
}

// DefaultCampaignTuning returns the adaptation policy used when the config
// file has no tuning section.
func DefaultCampaignTuning() CampaignTuning {
	return CampaignTuning{
		SafetyFloor:       0.7,
		ShrinkFactor:      0.2,
		GrowFactor:        1.2,
		ThresholdStepUp:   0.1,
		ThresholdStepDown: 0.05,
		MinBatchSize:      5,
		CheckpointSlack:   5,
	}
}
