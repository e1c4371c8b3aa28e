package schema

import (
	"math"
	"strings"
	"unicode"
)

// Clamp01 pins a value to the [0,1] interval. NaN collapses to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Mean returns the arithmetic mean of the values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// TruncateSnippet collapses leading indentation and bounds a code line for
// display. Truncation appends an ellipsis so readers know text was dropped.
func TruncateSnippet(snippet string, maxLen int) string {
	trimmed := strings.TrimSpace(snippet)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	if maxLen <= 3 {
		return trimmed[:maxLen]
	}
	return trimmed[:maxLen-3] + "..."
}

// TitleForCategory formats "array_type" as "Array Type" for human output.
func TitleForCategory(c Category) string {
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		rr := []rune(p)
		rr[0] = unicode.ToUpper(rr[0])
		parts[i] = string(rr)
	}
	return strings.Join(parts, " ")
}
