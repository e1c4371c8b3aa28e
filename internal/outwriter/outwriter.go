// Package outwriter renders campaign output: console tables, CSV and JSON
// streams, and the report files persisted at the end of a run.
package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/alchm-kitchen/typesweep/internal/contract"
)

// GetMaxTablePathWidth calculates the maximum width for file locations in
// table output based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 30 // Rank + Verdict + Conf + Label with borders/padding

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 45 // Category + Domain + Suggested with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	// Calculate available space for the location column
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable location width
		return 15
	}
	if available > 70 {
		// Maximum location width to prevent overly long paths
		return 70
	}
	return available
}
