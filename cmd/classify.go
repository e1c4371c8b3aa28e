package cmd

import (
	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/spf13/cobra"
)

// classifyCmd performs occurrence-level classification.
var classifyCmd = &cobra.Command{
	Use:   "classify [project-path]",
	Short: "Show every 'any' occurrence with its verdict and confidence.",
	Long: `Scan the project and classify each 'any' occurrence without changing anything.

Every occurrence is matched against the rule catalog and scored, telling you:
- Whether the usage looks intentional (error handling, third-party shims, test
  scaffolding) or is a candidate for replacement
- The suggested replacement type when one exists
- A confidence score and the signals that produced it
- The code domain the file belongs to (service, component, utility, test, ...)

Findings are ranked by confidence so the safest replacements surface first.
This is the read-only view of exactly what a campaign would act on.

Examples:
  # Classify the current project
  typesweep classify

  # Focus on one subsystem with full signal detail
  typesweep classify --filter src/api/ --detail

  # Export findings for review tooling
  typesweep classify --output json --output-file findings.json

  # Classify a project elsewhere on disk
  typesweep classify ~/work/storefront`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClassify(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run classification", err)
		}
	},
}
