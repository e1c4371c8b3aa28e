package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alchm-kitchen/typesweep/core"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/runstore"
	"github.com/alchm-kitchen/typesweep/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errHistoryDisabled is returned when a history command runs with the none backend.
var errHistoryDisabled = errors.New("history tracking is disabled (history-backend is none)")

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by the list and export commands)
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, markdown, parquet", cfg.Output)
	}
	cfg.ResultLimit = viper.GetInt("limit")

	// Initialize stores with the loaded config
	if err := runstore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on campaign history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by analysis commands. This avoids project root
// resolution and campaign config processing for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded campaign runs and exports",
	Long: `Manage the campaign history used for trend tracking and target recommendations.

When enabled, Typesweep records every campaign run, storing:
- Run metadata (profile, timestamps, final state, stop reason)
- Per-batch metrics (attempted and validated replacements, safety scores)
- Safety events (rollbacks, checkpoint aborts, adaptation decisions)

History feeds the target command's success-rate adjustment and enables
longitudinal reporting on how much 'any' debt a codebase has shed.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recorded campaign runs
  status  - Show history backend statistics
  export  - Export history to Parquet for analytics
  clear   - Remove all recorded history
  migrate - Run database schema migrations

Examples:
  # Review past campaign runs
  typesweep history list

  # Export for analysis in pandas/DuckDB
  typesweep history export --output-file campaign-history.parquet`,
}

// historyListCmd lists recorded campaign runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded campaign runs, newest first",
	Long: `List recorded campaign runs with their outcome and replacement counts.

Each row shows the run identifier, profile, start time, final state and the
files processed, replacements applied and rollbacks performed. In-flight or
crashed runs appear without a final state.

Examples:
  # Show the most recent runs
  typesweep history list

  # Machine-readable history for dashboards
  typesweep history list --output json

  # Only the last three runs
  typesweep history list --limit 3`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryList(cfg, runstore.Manager.GetCampaignStore()); err != nil {
			contract.LogFatal("Cannot list campaign history", err)
		}
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the campaign history backend.

Displays:
- Backend type and connection status
- Total number of recorded campaign runs
- Last and oldest run timestamps
- Total replacements across all runs
- Database table sizes

Use this to:
- Verify history tracking is enabled and working
- Monitor data accumulation over time
- Check database connection health

Examples:
  # Check history status
  typesweep history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetCampaignStore()
		if store == nil {
			contract.LogFatal("Cannot show history status", errHistoryDisabled)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		runstore.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the recorded history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded campaign history",
	Long: `Delete all stored campaign runs, batch metrics and safety events.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Use this when:
- Resetting history after large codebase restructuring
- The recorded success rates no longer reflect the codebase
- Testing campaign features

Examples:
  # Export before clearing
  typesweep history export --output-file backup.parquet
  typesweep history clear

  # Clear a MySQL-backed history (set connection string via env variable)
  TYPESWEEP_HISTORY_BACKEND=mysql TYPESWEEP_HISTORY_DB_CONNECT="..." typesweep history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyExportCmd exports campaign history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export campaign history to Parquet for BI tools and analytics",
	Long: `Export all recorded campaign data to Parquet format for analytics tooling.

Exports three datasets, each to its own file next to --output-file:
- Campaign runs - metadata about each run
- Batch metrics - per-batch replacement and safety numbers
- Safety events - rollbacks, checkpoint aborts and adaptation decisions

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all history
  typesweep history export --output-file typesweep-history

  # Use with DuckDB for analysis
  typesweep history export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.campaign_runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if runstore.Manager.GetCampaignStore() == nil {
			contract.LogFatal("Cannot export history", errHistoryDisabled)
		}
		if err := runstore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the campaign history store.

Migrations allow:
- Upgrading to new schema versions when Typesweep is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  typesweep history migrate

  # Migrate to specific version
  typesweep history migrate --target-version 2

  # Rollback to previous version
  typesweep history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
