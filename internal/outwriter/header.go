package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header for each analysis phase.
// The header goes to stderr so piped JSON and CSV output stays clean.
func LogAnalysisHeader(cfg *contract.Config) {
	projectName := filepath.Base(cfg.ProjectPath)
	if projectName == "" || projectName == "." {
		projectName = "current"
	}

	profile := string(cfg.Profile)
	if cfg.DryRun {
		profile += ", dry-run"
	}

	// Line 1: The analysis summary (Project and Profile)
	fmt.Fprintln(os.Stderr, headerTitle("🔎", fmt.Sprintf("Project: %s (profile: %s)", projectName, profile), cfg.UseEmojis))

	// Line 2: The source dirs being scanned
	fmt.Fprintln(os.Stderr, headerTitle("📂", fmt.Sprintf("Sources: %s (workers: %d)", strings.Join(cfg.SourceDirs, ", "), cfg.Workers), cfg.UseEmojis))
}
