package cmd

import (
	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/spf13/cobra"
)

// targetCmd recommends a reduction target for the next campaign.
var targetCmd = &cobra.Command{
	Use:   "target [project-path]",
	Short: "Recommend a realistic reduction target for the next campaign.",
	Long: `Sample the worst candidate files and estimate how much 'any' a campaign can
safely remove from this codebase.

The recommendation starts from a baseline percentage and adjusts it using:
- The share of array and record annotations, which rewrite cleanly
- The share of parameter annotations, whose rewrites can break callers
- The density of test-file occurrences in the sample
- The trailing success rate of previous runs, when history is available

The output includes the reasoning behind the number and a milestone ladder
(25/50/75/100 percent of the target) with estimated batch counts, so you can
decide how far to let the next run go.

Examples:
  # Recommend a target for the current project
  typesweep target

  # Sample more files for a steadier estimate
  typesweep target --sample 50

  # Use the recommendation in the next run
  typesweep run --target 18`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTarget(rootCtx, cfg, campaignStore()); err != nil {
			contract.LogFatal("Cannot compute target recommendation", err)
		}
	},
}
