package cmd

import (
	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
	"github.com/spf13/cobra"
)

// pilotSetupWrapper runs the shared setup and pins the pilot campaign profile.
func pilotSetupWrapper(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	cfg.Profile = schema.PilotProfile
	return nil
}

// pilotCmd executes a small trial campaign.
var pilotCmd = &cobra.Command{
	Use:   "pilot [project-path]",
	Short: "Run a small trial campaign to gauge how a codebase responds.",
	Long: `Run a scaled-down campaign before committing to a full sweep.

The pilot profile uses smaller batches and a lower reduction target than the
full profile, only rewrites array and record annotations, and proves the build
healthy both before and after every batch; any build failure ends the run. Use
it to measure the replacement success rate on an unfamiliar codebase; the
recorded history feeds the target command's recommendation for the real run.

All the safety machinery of a full run applies: baseline type check, per-batch
validation, rollback and quarantine.

Examples:
  # Trial sweep of the current project
  typesweep pilot

  # Preview what a pilot would replace
  typesweep pilot --dry-run

  # Pilot a specific subsystem only
  typesweep pilot --filter src/legacy/

  # Then check the recommendation informed by the pilot
  typesweep target`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: pilotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCampaign(rootCtx, cfg, campaignStore()); err != nil {
			contract.LogFatal("Pilot campaign failed", err)
		}
	},
}
