//go:build basic

// Package integration contains CLI-level tests for typesweep.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVersionCommand checks the version output shape.
func TestVersionCommand(t *testing.T) {
	out, err := runTypesweepOutput(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "typesweep CLI")
	assert.Contains(t, out, "Version:")
}

// TestRulesCommand checks that the rule catalog renders without a project.
func TestRulesCommand(t *testing.T) {
	out, err := runTypesweepOutput(t, "rules", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "error_handling")
	assert.Contains(t, out, "max_score")
}

// TestDiscoverCommand checks candidate discovery against a fixture project.
func TestDiscoverCommand(t *testing.T) {
	project := writeFixtureProject(t)

	out, err := runTypesweepOutput(t, "discover", project, "--history-backend", "none", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "src/services/payment.ts")
	assert.Contains(t, out, "src/components/Cart.tsx")
	assert.Contains(t, out, "src/utils/parse.ts")
}

// TestClassifyCommand checks occurrence classification against a fixture project.
func TestClassifyCommand(t *testing.T) {
	project := writeFixtureProject(t)

	out, err := runTypesweepOutput(t, "classify", project, "--history-backend", "none", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"file_path"`)
	assert.Contains(t, out, "src/services/payment.ts")
	// The catch-clause annotation should classify as intentional error handling
	assert.Contains(t, out, `"error_handling"`)
}

// TestPilotDryRunWithSQLiteHistory runs a dry-run pilot campaign and checks
// that the run lands in the default SQLite history database.
func TestPilotDryRunWithSQLiteHistory(t *testing.T) {
	project := writeFixtureProject(t)
	home := t.TempDir()
	t.Setenv("HOME", home) // keep the SQLite history file out of the real home

	err := runTypesweepCommand(t, "pilot", project, "--dry-run")
	require.NoError(t, err)

	// The fixture files must be untouched by a dry run
	payment, readErr := os.ReadFile(filepath.Join(project, "src", "services", "payment.ts"))
	require.NoError(t, readErr)
	assert.Contains(t, string(payment), "req: any")

	out, err := runTypesweepOutput(t, "history", "list", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"profile": "pilot"`)

	_, statErr := os.Stat(filepath.Join(home, ".typesweep_history.db"))
	assert.NoError(t, statErr)
}
