// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/alchm-kitchen/typesweep/schema"
)

// TypeChecker defines the compiler-facing operations for campaign validation.
// This allows the transaction and orchestration logic to be tested without a
// real compiler toolchain on the machine.
type TypeChecker interface {
	// --- Project Resolution ---

	// ResolveRoot returns the absolute path to the project root containing the
	// given context path, identified by its compiler configuration file.
	ResolveRoot(ctx context.Context, contextPath string) (string, error)

	// --- Compile / Test Validation ---

	// Check runs a bounded no-emit compile pass over the project and returns
	// parsed error diagnostics, one entry per compiler error line. An empty
	// slice means the project compiles. A non-nil error means the check itself
	// could not complete (missing binary, timeout) and must be treated as a
	// build failure by callers.
	Check(ctx context.Context, projectPath string) ([]string, error)

	// RunTests runs the test suite, optionally narrowed to a scope pattern.
	// A non-nil error means at least one test failed or the run was cut short.
	RunTests(ctx context.Context, projectPath string, scope string) error
}

// DomainProvider defines domain tagging for code locations. The campaign
// consumes tags and hints as inputs; it never computes them itself.
type DomainProvider interface {
	// DomainFor returns the coarse subject-matter tag for a file path.
	DomainFor(path string) schema.Domain

	// HintsFor returns intentionality hints and suggested concrete types for
	// a file path. Both slices may be empty.
	HintsFor(path string) (hints []string, suggestedTypes []string)
}

// HistoryManager defines the interface for managing history stores.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetCampaignStore() CampaignStore
}

// CampaignStore defines the interface for tracking campaign runs and storing
// batch metrics and safety events.
type CampaignStore interface {
	// BeginRun creates a new campaign run row keyed by its unique ID
	BeginRun(runID string, profile schema.CampaignProfile, startTime time.Time, configParams map[string]any) error

	// EndRun updates the campaign run with completion data
	EndRun(runID string, endTime time.Time, finalState schema.CampaignState, stopReason string, results schema.CampaignResults) error

	// RecordBatch stores the metrics of one executed batch
	RecordBatch(runID string, metrics schema.BatchMetrics) error

	// RecordSafetyEvent stores one structured safety event
	RecordSafetyEvent(event schema.SafetyEventRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all campaign runs for export
	GetAllRuns() ([]schema.CampaignRunRecord, error)

	// GetAllBatchMetrics retrieves all batch metric rows for export
	GetAllBatchMetrics() ([]schema.BatchMetricsRecord, error)

	// GetAllSafetyEvents retrieves all safety event rows for export
	GetAllSafetyEvents() ([]schema.SafetyEventRecord, error)

	// Close closes the underlying connection
	Close() error
}
