package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "smallest value possible",
			input:    0.0,
			expected: LowValue,
		},
		{
			name:     "just before moderate",
			input:    0.59,
			expected: LowValue,
		},
		{
			name:     "exactly moderate",
			input:    0.6,
			expected: ModerateValue,
		},
		{
			name:     "just before high",
			input:    0.74,
			expected: ModerateValue,
		},
		{
			name:     "exactly high",
			input:    0.75,
			expected: HighValue,
		},
		{
			name:     "just before certain",
			input:    0.89,
			expected: HighValue,
		},
		{
			name:     "exactly certain",
			input:    0.9,
			expected: CertainValue,
		},
		{
			name:     "full confidence",
			input:    1.0,
			expected: CertainValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		label string
	}{
		{"low", 0.3, LowValue},
		{"moderate", 0.65, ModerateValue},
		{"high", 0.8, HighValue},
		{"certain", 0.95, CertainValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.score)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{
			name:       "empty excludes",
			path:       "src/services/astrologyService.ts",
			excludes:   []string{},
			wantIgnore: false,
		},
		{
			name:       "prefix match",
			path:       "node_modules/react/index.d.ts",
			excludes:   []string{"node_modules/"},
			wantIgnore: true,
		},
		{
			name:       "suffix match",
			path:       "src/types/api.gen.ts",
			excludes:   []string{".gen.ts"},
			wantIgnore: true,
		},
		{
			name:       "glob match basename",
			path:       "dist/bundle.min.js",
			excludes:   []string{"*.min.js"},
			wantIgnore: true,
		},
		{
			name:       "glob match with spec suffix",
			path:       "src/utils/math.spec.ts",
			excludes:   []string{"*.spec.ts"},
			wantIgnore: true,
		},
		{
			name:       "substring match",
			path:       "src/__generated__/schema.ts",
			excludes:   []string{"__generated__"},
			wantIgnore: true,
		},
		{
			name:       "no match",
			path:       "src/core/engine.ts",
			excludes:   []string{"vendor/", "node_modules/", ".min.js"},
			wantIgnore: false,
		},
		{
			name:       "multiple excludes with match",
			path:       "coverage/lcov-report/index.js",
			excludes:   []string{"dist/", "coverage/", "build/"},
			wantIgnore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldIgnore(tt.path, tt.excludes)
			assert.Equal(t, tt.wantIgnore, got)
		})
	}
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()

	// Should not be empty
	assert.NotEmpty(t, path)

	// Should contain the database name
	assert.Contains(t, path, ".typesweep_history.db")

	// Should be in home directory
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestNormalizeSourcePath(t *testing.T) {
	projectPath := "/home/user/project"

	tests := []struct {
		name        string
		userPath    string
		expected    string
		expectError bool
	}{
		{
			name:     "relative path",
			userPath: "src/main.ts",
			expected: "src/main.ts",
		},
		{
			name:     "relative path with dot",
			userPath: "./src/main.ts",
			expected: "src/main.ts",
		},
		{
			name:     "absolute path within project",
			userPath: "/home/user/project/src/main.ts",
			expected: "src/main.ts",
		},
		{
			name:     "path with parent directory",
			userPath: "src/../lib/utils.ts",
			expected: "lib/utils.ts",
		},
		{
			name:     "directory path",
			userPath: "src/",
			expected: "src",
		},
		{
			name:        "absolute path outside project",
			userPath:    "/tmp/file.ts",
			expectError: true,
		},
		{
			name:        "path going outside project",
			userPath:    "../../../outside.ts",
			expectError: true,
		},
		{
			name:     "empty path",
			userPath: "",
			expected: ".",
		},
		{
			name:     "root path",
			userPath: ".",
			expected: ".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeSourcePath(projectPath, tt.userPath)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		expected string
	}{
		{"short path untouched", "src/main.ts", 40, "src/main.ts"},
		{"exact width untouched", "src/main.ts", 11, "src/main.ts"},
		{"long path keeps tail", "src/calculations/alchemicalEngine.ts", 20, "...chemicalEngine.ts"},
		{"width too small to truncate", "src/main.ts", 3, "src/main.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.maxWidth)
			assert.Equal(t, tt.expected, got)
			if tt.maxWidth > 3 {
				assert.LessOrEqual(t, len([]rune(got)), tt.maxWidth)
			}
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", "yes", true, false},
		{"true", "true", true, false},
		{"one", "1", true, false},
		{"uppercase yes", "YES", true, false},
		{"no", "no", false, false},
		{"false", "false", false, false},
		{"zero", "0", false, false},
		{"empty", "", false, true},
		{"garbage", "maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
