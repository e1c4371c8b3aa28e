package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "precision 2",
			precision: 2,
			value:     3.14159,
			expected:  "3.14",
		},
		{
			name:      "precision 0",
			precision: 0,
			value:     3.14159,
			expected:  "3",
		},
		{
			name:      "precision 4",
			precision: 4,
			value:     3.14159,
			expected:  "3.1416",
		},
		{
			name:      "negative value",
			precision: 2,
			value:     -42.567,
			expected:  "-42.57",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]any{"name": "test", "value": 42})
	require.NoError(t, err)

	expected := `{
  "name": "test",
  "value": 42
}
`
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(cw *csv.Writer) error {
		return cw.Write([]string{"1", "2"})
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a,b", lines[0])
	assert.Equal(t, "1,2", lines[1])
}

func TestWriteWithFileWritesToPath(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(outputFile, func(w io.Writer) error {
		_, werr := io.WriteString(w, "payload")
		return werr
	}, "Wrote table")
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestWriteWithFileEmptyPathUsesStdout(t *testing.T) {
	// An empty path must not create a file; the writer receives stdout.
	err := writeWithFile("", func(w io.Writer) error {
		assert.Equal(t, os.Stdout, w)
		return nil
	}, "Wrote table")
	require.NoError(t, err)
}

func TestSuccessMessage(t *testing.T) {
	tests := []struct {
		name     string
		mode     schema.OutputMode
		expected string
	}{
		{
			name:     "json mode",
			mode:     schema.JSONOut,
			expected: "Wrote JSON",
		},
		{
			name:     "csv mode",
			mode:     schema.CSVOut,
			expected: "Wrote CSV",
		},
		{
			name:     "text mode",
			mode:     schema.TextOut,
			expected: "Wrote table",
		},
		{
			name:     "markdown falls to table",
			mode:     schema.MarkdownOut,
			expected: "Wrote table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, successMessage(tt.mode))
		})
	}
}

func TestDisplayVerdict(t *testing.T) {
	tests := []struct {
		name        string
		intentional bool
		useEmojis   bool
		expected    string
	}{
		{
			name:        "keep plain",
			intentional: true,
			useEmojis:   false,
			expected:    "KEEP",
		},
		{
			name:        "keep with emoji",
			intentional: true,
			useEmojis:   true,
			expected:    "✅ KEEP",
		},
		{
			name:        "replace plain",
			intentional: false,
			useEmojis:   false,
			expected:    "REPLACE",
		},
		{
			name:        "replace with emoji",
			intentional: false,
			useEmojis:   true,
			expected:    "🔁 REPLACE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, displayVerdict(tt.intentional, tt.useEmojis))
		})
	}
}

func TestVerdictWord(t *testing.T) {
	assert.Equal(t, "keep", verdictWord(true))
	assert.Equal(t, "replace", verdictWord(false))
}

func TestHeaderTitle(t *testing.T) {
	assert.Equal(t, "🎯 Campaign Target", headerTitle("🎯", "Campaign Target", true))
	assert.Equal(t, "Campaign Target", headerTitle("🎯", "Campaign Target", false))
}

func TestLabelRendererHonorsColorMode(t *testing.T) {
	plain := labelRenderer(&contract.Config{UseColors: false})
	assert.Equal(t, "Certain", plain(0.95))
	assert.Equal(t, "Low", plain(0.2))

	// Colored output still carries the label text; escape codes are dropped
	// automatically when no terminal is attached.
	colored := labelRenderer(&contract.Config{UseColors: true})
	assert.Contains(t, colored(0.95), "Certain")
}
