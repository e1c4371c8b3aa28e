// Package cmd defines the command-line interface for typesweep.
package cmd

import (
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pilotCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-finding signals and replacement hints")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Filter findings by path prefix")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("source-dirs", "src", "Comma-separated list of source directories to scan")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or markdown or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("pprof", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("check-command", "", "Type check command to validate batches (default 'npx tsc --noEmit')")
	rootCmd.PersistentFlags().String("check-timeout", "", "Timeout for a single type check run (e.g. '90s', '2 minutes')")
	rootCmd.PersistentFlags().String("backup-dir", "", "Root directory for per-run file backups (default .typesweep/backups)")
	rootCmd.PersistentFlags().String("reports-dir", "", "Directory for campaign report files (default .typesweep/reports)")
	rootCmd.PersistentFlags().String("event-log", "", "Path to the JSONL campaign event log (default .typesweep/events.jsonl)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// The campaign flags are shared between runCmd and pilotCmd. They get
	// bound to Viper in sharedSetup, once the executing command is known,
	// because two init-time bindings for the same key would clobber each other.
	addCampaignFlags(runCmd)
	addCampaignFlags(pilotCmd)

	// The target sample flag follows the same late-binding path
	targetCmd.Flags().Int("sample", contract.DefaultSampleSize, "Number of top candidate files to sample for the estimate")

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}

// addCampaignFlags declares the orchestration knobs shared by run and pilot.
func addCampaignFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Preview replacements without modifying files or invoking the compiler")
	cmd.Flags().Int("batch-size", 0, "Initial number of files per batch (0 = profile default)")
	cmd.Flags().Float64("confidence", 0, "Initial confidence threshold for replacements (0 = profile default)")
	cmd.Flags().Float64("target", 0, "Reduction target as a percent of total occurrences (0 = profile default)")
	cmd.Flags().Int("max-batches", contract.DefaultMaxBatches, "Maximum number of batches before the run stops")
	cmd.Flags().String("max-build-time", "", "Budget for a single build validation (e.g. '30s')")
	cmd.Flags().Bool("run-tests", false, "Run the project test suite after each validated batch")
	cmd.Flags().String("test-command", "", "Test command (default 'npx jest --silent')")
	cmd.Flags().String("test-scope", "", "Restrict post-batch tests to a path scope")
}
