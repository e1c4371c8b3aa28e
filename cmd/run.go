package cmd

import (
	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd executes a full elimination campaign.
var runCmd = &cobra.Command{
	Use:   "run [project-path]",
	Short: "Run a full elimination campaign with per-batch compiler validation.",
	Long: `Run an adaptive campaign that replaces unintentional 'any' usage in small batches.

Each batch is type-checked before it counts; failing batches are rolled back from
per-run backups and the offending files are quarantined for the rest of the run.
Batch size and confidence threshold adapt to the observed safety rate, so a noisy
codebase slows the campaign down instead of breaking it. The adaptation policy
itself (safety floor, shrink and growth factors, threshold steps, checkpoint
slack) can be overridden through the tuning section of .typesweep.yaml.

The campaign stops when it reaches the reduction target, runs out of candidates,
hits the batch cap, or trips the safety brake (three low-safety batches in a row).

Every run writes:
- A JSON and Markdown report pair under the reports directory
- A JSONL event log of batch and safety events
- A history record when a history backend is configured

Examples:
  # Run with profile defaults against the current project
  typesweep run

  # Preview the replacement plan without touching any file
  typesweep run --dry-run

  # Push for a deeper sweep with a custom target and batch cap
  typesweep run --target 30 --max-batches 80

  # Gate each batch on the project test suite as well
  typesweep run --run-tests --test-scope src/services

  # Use a project-specific compiler invocation
  typesweep run --check-command "yarn tsc -p tsconfig.strict.json --noEmit"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCampaign(rootCtx, cfg, campaignStore()); err != nil {
			contract.LogFatal("Campaign failed", err)
		}
	},
}
