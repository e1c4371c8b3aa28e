package contract

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchm-kitchen/typesweep/schema"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
		setupMock   func(*MockTypeChecker, string) // Pass the expected working directory
	}{
		{
			name: "valid minimal config",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				Exclude:        "",
				ProjectPathStr: ".",
			},
			expectError: false,
			setupMock: func(mock *MockTypeChecker, workDir string) {
				ctx := context.Background()
				mock.On("ResolveRoot", ctx, workDir).Return("/mock/project/root", nil)
			},
		},
		{
			name: "invalid limit (zero)",
			input: &ConfigRawInput{
				Limit:          0,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
			},
			expectError: true,
			setupMock:   nil, // No mock setup needed since validation fails early
		},
		{
			name: "invalid limit (negative)",
			input: &ConfigRawInput{
				Limit:          -1,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid limit (too large)",
			input: &ConfigRawInput{
				Limit:          1001,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid workers (zero)",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        0,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid precision (zero)",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      0,
				Output:         "text",
				ProjectPathStr: ".",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid precision (too high)",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      4,
				Output:         "text",
				ProjectPathStr: ".",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid output format",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "invalid_format",
				ProjectPathStr: ".",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid history backend",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				HistoryBackend: "invalid_backend",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "mysql backend without connection string",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				HistoryBackend: string(schema.MySQLBackend),
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "postgresql backend without connection string",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				HistoryBackend: string(schema.PostgreSQLBackend),
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "mysql backend with connection string",
			input: &ConfigRawInput{
				Limit:            10,
				Workers:          4,
				Precision:        2,
				Output:           "text",
				ProjectPathStr:   ".",
				HistoryBackend:   string(schema.MySQLBackend),
				HistoryDBConnect: "user:pass@tcp(localhost:3306)/typesweep",
			},
			expectError: false,
			setupMock: func(mock *MockTypeChecker, workDir string) {
				ctx := context.Background()
				mock.On("ResolveRoot", ctx, workDir).Return("/mock/project/root", nil)
			},
		},
		{
			name: "none backend",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				HistoryBackend: string(schema.NoneBackend),
			},
			expectError: false,
			setupMock: func(mock *MockTypeChecker, workDir string) {
				ctx := context.Background()
				mock.On("ResolveRoot", ctx, workDir).Return("/mock/project/root", nil)
			},
		},
		{
			name: "confidence below window",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				Confidence:     0.3,
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "confidence above window",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				Confidence:     0.99,
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "valid confidence override",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				Confidence:     0.85,
			},
			expectError: false,
			setupMock: func(mock *MockTypeChecker, workDir string) {
				ctx := context.Background()
				mock.On("ResolveRoot", ctx, workDir).Return("/mock/project/root", nil)
			},
		},
		{
			name: "batch size over cap",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				BatchSize:      MaxBatchSize + 5,
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "negative reduction target",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				TargetPercent:  -1,
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "reduction target over 100",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				TargetPercent:  150,
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid check timeout",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				CheckTimeout:   "soon",
			},
			expectError: true,
			setupMock:   nil,
		},
		{
			name: "invalid emoji value",
			input: &ConfigRawInput{
				Limit:          10,
				Workers:        4,
				Precision:      2,
				Output:         "text",
				ProjectPathStr: ".",
				Emoji:          "maybe",
			},
			expectError: true,
			setupMock:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChecker := new(MockTypeChecker)

			// Dynamically determine the expected working directory
			workDir, err := filepath.Abs(".")
			require.NoError(t, err)

			if tt.setupMock != nil {
				tt.setupMock(mockChecker, workDir)
			}

			// Set default history backend if not specified
			if tt.input.HistoryBackend == "" {
				tt.input.HistoryBackend = string(schema.SQLiteBackend)
			}

			cfg := &Config{}
			ctx := context.Background()
			err = ProcessAndValidate(ctx, cfg, mockChecker, tt.input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
				// Basic validation that config was populated
				assert.Equal(t, tt.input.Limit, cfg.ResultLimit)
				assert.Equal(t, "/mock/project/root", cfg.ProjectPath)
			}

			if tt.setupMock != nil {
				mockChecker.AssertExpectations(t)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	mockChecker := new(MockTypeChecker)

	workDir, err := filepath.Abs(".")
	require.NoError(t, err)

	ctx := context.Background()
	mockChecker.On("ResolveRoot", ctx, workDir).Return("/mock/project/root", nil)

	cfg := &Config{}
	input := &ConfigRawInput{
		Limit:          10,
		Workers:        4,
		Precision:      2,
		Output:         "text",
		ProjectPathStr: ".",
		HistoryBackend: string(schema.SQLiteBackend),
	}
	err = ProcessAndValidate(ctx, cfg, mockChecker, input)
	require.NoError(t, err)

	assert.Equal(t, []string{"src"}, cfg.SourceDirs, "source dirs should default to src")
	assert.Equal(t, []string{"npx", "tsc", "--noEmit"}, cfg.CheckCommand)
	assert.Equal(t, []string{"npx", "jest", "--silent"}, cfg.TestCommand)
	assert.Equal(t, DefaultCheckTimeout, cfg.CheckTimeout)
	assert.Equal(t, DefaultMaxBuildTime, cfg.MaxBuildTime)
	assert.Equal(t, DefaultMaxBatches, cfg.MaxBatches)
	assert.Equal(t, DefaultSampleSize, cfg.SampleSize)
	assert.Contains(t, cfg.Excludes, "node_modules/")
	assert.Contains(t, cfg.Excludes, ".gen.ts")
	assert.True(t, cfg.UseEmojis, "emoji should default on")
	assert.True(t, cfg.UseColors, "color should default on")
	assert.Equal(t, schema.DefaultCampaignTuning(), cfg.Tuning, "tuning defaults apply without a tuning section")
	assert.Equal(t, schema.DefaultCategoryCaps(), cfg.CategoryCaps, "cap defaults apply without a caps section")

	// Storage paths resolve under the resolved project root.
	assert.Equal(t, filepath.Join("/mock/project/root", ".typesweep", "backups"), cfg.BackupDir)
	assert.Equal(t, filepath.Join("/mock/project/root", ".typesweep", "reports"), cfg.ReportsDir)
	assert.Equal(t, filepath.Join("/mock/project/root", ".typesweep", "events.jsonl"), cfg.EventLog)

	mockChecker.AssertExpectations(t)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	mockChecker := new(MockTypeChecker)

	workDir, err := filepath.Abs(".")
	require.NoError(t, err)

	ctx := context.Background()
	mockChecker.On("ResolveRoot", ctx, workDir).Return("/mock/project/root", nil)

	cfg := &Config{}
	input := &ConfigRawInput{
		Limit:          10,
		Workers:        4,
		Precision:      2,
		Output:         "text",
		ProjectPathStr: ".",
		HistoryBackend: string(schema.SQLiteBackend),
		Filter:         "src/services/",
		SourceDirsStr:  "src, lib/, packages/core",
		Exclude:        "vendor/, legacy/",
		CheckCommand:   "yarn tsc --noEmit --incremental false",
		CheckTimeout:   "90",
		MaxBuildTime:   "45s",
		BackupDir:      "/var/backups/typesweep",
	}
	err = ProcessAndValidate(ctx, cfg, mockChecker, input)
	require.NoError(t, err)

	assert.Equal(t, "src/services/", cfg.PathFilter, "explicit filter takes precedence")
	assert.Equal(t, []string{"src", "lib", "packages/core"}, cfg.SourceDirs)
	assert.Contains(t, cfg.Excludes, "vendor/")
	assert.Contains(t, cfg.Excludes, "legacy/")
	assert.Contains(t, cfg.Excludes, "node_modules/", "defaults are kept alongside user excludes")
	assert.Equal(t, []string{"yarn", "tsc", "--noEmit", "--incremental", "false"}, cfg.CheckCommand)
	assert.Equal(t, 90*time.Second, cfg.CheckTimeout, "bare integers parse as seconds")
	assert.Equal(t, 45*time.Second, cfg.MaxBuildTime)
	assert.Equal(t, "/var/backups/typesweep", cfg.BackupDir, "absolute paths bypass project root resolution")

	mockChecker.AssertExpectations(t)
}

func TestProcessTuning(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	n := func(v int) *int { return &v }

	tests := []struct {
		name        string
		raw         TuningRawInput
		expectError bool
		check       func(*testing.T, schema.CampaignTuning)
	}{
		{
			name: "absent section keeps every default",
			raw:  TuningRawInput{},
			check: func(t *testing.T, tun schema.CampaignTuning) {
				assert.Equal(t, schema.DefaultCampaignTuning(), tun)
			},
		},
		{
			name: "partial override keeps the rest",
			raw:  TuningRawInput{SafetyFloor: f(0.8), CheckpointSlack: n(2)},
			check: func(t *testing.T, tun schema.CampaignTuning) {
				assert.InDelta(t, 0.8, tun.SafetyFloor, 1e-9)
				assert.Equal(t, 2, tun.CheckpointSlack)
				assert.InDelta(t, 0.2, tun.ShrinkFactor, 1e-9)
				assert.Equal(t, 5, tun.MinBatchSize)
			},
		},
		{
			name: "full override",
			raw: TuningRawInput{
				SafetyFloor:       f(0.75),
				ShrinkFactor:      f(0.5),
				GrowFactor:        f(1.5),
				ThresholdStepUp:   f(0.05),
				ThresholdStepDown: f(0.02),
				MinBatchSize:      n(3),
				CheckpointSlack:   n(0),
			},
			check: func(t *testing.T, tun schema.CampaignTuning) {
				assert.InDelta(t, 0.75, tun.SafetyFloor, 1e-9)
				assert.InDelta(t, 0.5, tun.ShrinkFactor, 1e-9)
				assert.InDelta(t, 1.5, tun.GrowFactor, 1e-9)
				assert.InDelta(t, 0.05, tun.ThresholdStepUp, 1e-9)
				assert.InDelta(t, 0.02, tun.ThresholdStepDown, 1e-9)
				assert.Equal(t, 3, tun.MinBatchSize)
				assert.Zero(t, tun.CheckpointSlack)
			},
		},
		{name: "safety floor at zero", raw: TuningRawInput{SafetyFloor: f(0)}, expectError: true},
		{name: "safety floor above one", raw: TuningRawInput{SafetyFloor: f(1.2)}, expectError: true},
		{name: "shrink factor at one would never shrink", raw: TuningRawInput{ShrinkFactor: f(1.0)}, expectError: true},
		{name: "grow factor under one would shrink", raw: TuningRawInput{GrowFactor: f(0.9)}, expectError: true},
		{name: "step up too large", raw: TuningRawInput{ThresholdStepUp: f(0.6)}, expectError: true},
		{name: "step down negative", raw: TuningRawInput{ThresholdStepDown: f(-0.05)}, expectError: true},
		{name: "min batch size zero", raw: TuningRawInput{MinBatchSize: n(0)}, expectError: true},
		{name: "min batch size over the hard cap", raw: TuningRawInput{MinBatchSize: n(MaxBatchSize + 1)}, expectError: true},
		{name: "negative checkpoint slack", raw: TuningRawInput{CheckpointSlack: n(-1)}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := processTuning(cfg, &ConfigRawInput{Tuning: tt.raw})
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg.Tuning)
		})
	}
}

func TestProcessCapsRawInput(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name        string
		raw         CapsRawInput
		expectError bool
		check       func(*testing.T, map[schema.Category]float64)
	}{
		{
			name: "absent section keeps every default",
			raw:  CapsRawInput{},
			check: func(t *testing.T, caps map[schema.Category]float64) {
				assert.Equal(t, schema.DefaultCategoryCaps(), caps)
			},
		},
		{
			name: "partial override keeps the rest",
			raw:  CapsRawInput{ErrorHandling: f(1.0), FunctionParam: f(0.6)},
			check: func(t *testing.T, caps map[schema.Category]float64) {
				assert.InDelta(t, 1.0, caps[schema.ErrorHandlingCategory], 1e-9)
				assert.InDelta(t, 0.6, caps[schema.FunctionParamCategory], 1e-9)
				assert.InDelta(t, 0.95, caps[schema.ArrayTypeCategory], 1e-9)
				assert.Len(t, caps, len(schema.AllCategories), "every category keeps a ceiling")
			},
		},
		{name: "cap at zero", raw: CapsRawInput{TestMock: f(0)}, expectError: true},
		{name: "cap above one", raw: CapsRawInput{ArrayType: f(1.1)}, expectError: true},
		{name: "negative cap", raw: CapsRawInput{ReturnType: f(-0.2)}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, err := ProcessCapsRawInput(tt.raw)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, caps)
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite ignores connection string", schema.SQLiteBackend, "", false},
		{"none ignores connection string", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(db:3306)/history", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@db/history", true},
		{"postgresql valid", schema.PostgreSQLBackend, "host=db port=5432 dbname=history", false},
		{"postgresql empty", schema.PostgreSQLBackend, "", true},
		{"postgresql missing dbname", schema.PostgreSQLBackend, "host=db port=5432", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	orig := &Config{
		ProjectPath:  "/tmp/project",
		SourceDirs:   []string{"src", "lib"},
		Excludes:     []string{"dist/"},
		CheckCommand: []string{"npx", "tsc", "--noEmit"},
		TestCommand:  []string{"npx", "jest"},
		ResultLimit:  25,
		CategoryCaps: schema.DefaultCategoryCaps(),
	}

	clone := orig.Clone()
	assert.Equal(t, orig, clone)

	// Mutating the clone's slices and maps must not leak back into the original.
	clone.SourceDirs[0] = "app"
	clone.Excludes[0] = "vendor/"
	clone.CheckCommand[0] = "yarn"
	clone.CategoryCaps[schema.ArrayTypeCategory] = 0.1
	assert.Equal(t, "src", orig.SourceDirs[0])
	assert.Equal(t, "dist/", orig.Excludes[0])
	assert.Equal(t, "npx", orig.CheckCommand[0])
	assert.InDelta(t, 0.95, orig.CategoryCaps[schema.ArrayTypeCategory], 1e-9)
}

func TestInitialAdaptiveConfig(t *testing.T) {
	t.Run("full profile defaults", func(t *testing.T) {
		cfg := Config{Profile: schema.FullProfile}
		assert.Equal(t, schema.GetDefaultAdaptiveConfig(schema.FullProfile), cfg.InitialAdaptiveConfig())
	})

	t.Run("overrides replace profile defaults", func(t *testing.T) {
		cfg := Config{
			Profile:             schema.FullProfile,
			BatchSize:           8,
			ConfidenceThreshold: 0.9,
			TargetPercent:       30,
		}
		ac := cfg.InitialAdaptiveConfig()
		assert.Equal(t, 8, ac.MaxFilesPerBatch)
		assert.InDelta(t, 0.9, ac.ConfidenceThreshold, 1e-9)
		assert.InDelta(t, 30, ac.TargetReductionPercent, 1e-9)
	})

	t.Run("pilot profile stays conservative", func(t *testing.T) {
		cfg := Config{Profile: schema.PilotProfile}
		ac := cfg.InitialAdaptiveConfig()
		assert.Equal(t, schema.ConservativeSafety, ac.SafetyLevel)
		assert.GreaterOrEqual(t, ac.ConfidenceThreshold, 0.8)
	})
}
