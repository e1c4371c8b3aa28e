package cmd

import (
	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/spf13/cobra"
)

// discoverCmd lists candidate files ranked by occurrence count.
var discoverCmd = &cobra.Command{
	Use:   "discover [project-path]",
	Short: "List the files with the most 'any' occurrences.",
	Long: `Scan the configured source directories and rank files by 'any' density.

This is the cheap, pattern-only pass: no classification and no scoring, just
which files carry the most occurrences. Use it to size up a codebase before
running classify or a campaign, or to pick a --filter scope worth sweeping.

Generated files, build output and dependency directories are excluded by
default; add more patterns with --exclude.

Examples:
  # Rank the top 25 files in the current project
  typesweep discover

  # Widen the scan beyond src/
  typesweep discover --source-dirs src,lib,scripts

  # Feed the worst offenders into a spreadsheet
  typesweep discover --limit 100 --output csv --output-file any-debt.csv

  # Check a monorepo package
  typesweep discover packages/checkout`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDiscover(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run discovery", err)
		}
	},
}
