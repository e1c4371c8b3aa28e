package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeoutDuration parses a user-provided timeout string. It accepts Go
// duration syntax ("30s", "2m", "1m30s") and bare integers interpreted as
// seconds ("30"). Zero and negative durations are rejected since a timeout
// of zero would make every external check fail immediately.
func ParseTimeoutDuration(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if secs, err := strconv.Atoi(trimmed); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("duration must be positive (received %d)", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: expected Go syntax like '30s' or a number of seconds", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive (received %s)", d)
	}
	return d, nil
}

// FormatDuration renders a duration for display, trimming sub-millisecond
// noise so table output remains stable across runs.
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return d.Round(time.Second).String()
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}
