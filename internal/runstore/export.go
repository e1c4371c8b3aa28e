package runstore

import (
	"errors"
	"fmt"

	"github.com/alchm-kitchen/typesweep/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of campaign history data to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the campaign store
	store := Manager.GetCampaignStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no campaign history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total campaign runs: %d\n", status.TotalRuns)
	fmt.Printf("Total batch records: %d\n", status.TableSizes["typesweep_batch_metrics"])

	// Retrieve all campaign runs
	campaignRuns, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve campaign runs: %w", err)
	}

	// Retrieve all batch metrics
	batchMetrics, err := store.GetAllBatchMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve batch metrics: %w", err)
	}

	// Retrieve all safety events
	safetyEvents, err := store.GetAllSafetyEvents()
	if err != nil {
		return fmt.Errorf("failed to retrieve safety events: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertCampaignRunRecords(campaignRuns)
	parquetBatches := parquet.ConvertBatchMetricsRecords(batchMetrics)
	parquetEvents := parquet.ConvertSafetyEventRecords(safetyEvents)

	// Write campaign runs to Parquet
	runsFile := outputFile + ".campaign_runs.parquet"
	if err := parquet.WriteCampaignRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write campaign runs: %w", err)
	}
	fmt.Printf("Exported %d campaign runs to: %s\n", len(parquetRuns), runsFile)

	// Write batch metrics to Parquet
	batchesFile := outputFile + ".batch_metrics.parquet"
	if err := parquet.WriteBatchMetricsParquet(parquetBatches, batchesFile); err != nil {
		return fmt.Errorf("failed to write batch metrics: %w", err)
	}
	fmt.Printf("Exported %d batch records to: %s\n", len(parquetBatches), batchesFile)

	// Write safety events to Parquet
	eventsFile := outputFile + ".safety_events.parquet"
	if err := parquet.WriteSafetyEventsParquet(parquetEvents, eventsFile); err != nil {
		return fmt.Errorf("failed to write safety events: %w", err)
	}
	fmt.Printf("Exported %d safety events to: %s\n", len(parquetEvents), eventsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
