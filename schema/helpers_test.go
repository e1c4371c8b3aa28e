package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below range", -0.5, 0},
		{"lower bound", 0, 0},
		{"in range", 0.42, 0.42},
		{"upper bound", 1, 1},
		{"above range", 1.8, 1},
		{"NaN collapses", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp01(tt.in)
			assert.Equal(t, tt.want, got, "Clamp01(%v) should pin to [0,1]", tt.in)
		})
	}
}

func TestMean(t *testing.T) {
	// Empty input yields zero rather than NaN.
	assert.Equal(t, 0.0, Mean(nil), "Mean of nil should be 0")
	assert.Equal(t, 0.0, Mean([]float64{}), "Mean of empty slice should be 0")

	// Simple averages.
	assert.InDelta(t, 0.5, Mean([]float64{0.2, 0.8}), 1e-9, "Mean should average values")
	assert.InDelta(t, 0.55, Mean([]float64{0.5, 0.55, 0.6}), 1e-9, "Mean should average three values")
}

func TestTruncateSnippet(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		maxLen  int
		want    string
	}{
		{"short line untouched", "const x: any = 1;", 40, "const x: any = 1;"},
		{"indentation stripped", "    const x: any = 1;", 40, "const x: any = 1;"},
		{"long line truncated", "const reallyLongVariableName: any = loadConfiguration();", 20, "const reallyLongV..."},
		{"zero max keeps all", "const x: any = 1;", 0, "const x: any = 1;"},
		{"tiny max hard-cuts", "const x", 2, "co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateSnippet(tt.snippet, tt.maxLen)
			assert.Equal(t, tt.want, got, "TruncateSnippet(%q, %d) mismatch", tt.snippet, tt.maxLen)
		})
	}
}

func TestTitleForCategory(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{ArrayTypeCategory, "Array Type"},
		{ErrorHandlingCategory, "Error Handling"},
		{ExternalAPICategory, "External Api"},
		{LegacyCompatCategory, "Legacy Compatibility"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := TitleForCategory(tt.category)
			assert.Equal(t, tt.want, got, "TitleForCategory(%q) mismatch", tt.category)
		})
	}
}
