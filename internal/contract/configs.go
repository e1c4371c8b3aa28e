package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alchm-kitchen/typesweep/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 2
	DefaultMaxBatches   = 50
	DefaultSampleSize   = 25
	DefaultCheckTimeout = 60 * time.Second
	DefaultMaxBuildTime = 30 * time.Second
)

// Bounds for campaign knob overrides. The adaptation logic moves the
// confidence threshold inside the same window, so overrides outside it would
// be rewritten on the first adaptation anyway.
const (
	MinConfidenceThreshold = 0.5
	MaxConfidenceThreshold = 0.95
	MaxBatchSize           = 25
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// TuningRawInput holds the adaptation policy overrides from the YAML config
// file. Only fields that might be customized are included. Use pointers for
// optional fields so an absent key keeps its default.
type TuningRawInput struct {
	SafetyFloor       *float64 `mapstructure:"safety_floor"`
	ShrinkFactor      *float64 `mapstructure:"shrink_factor"`
	GrowFactor        *float64 `mapstructure:"grow_factor"`
	ThresholdStepUp   *float64 `mapstructure:"threshold_step_up"`
	ThresholdStepDown *float64 `mapstructure:"threshold_step_down"`
	MinBatchSize      *int     `mapstructure:"min_batch_size"`
	CheckpointSlack   *int     `mapstructure:"checkpoint_slack"`
}

// CapsRawInput holds per-category confidence ceiling overrides from the YAML
// config file. The keys match the category identifiers the classifier reports.
// Use pointers for optional fields so an absent key keeps its default.
type CapsRawInput struct {
	ErrorHandling *float64 `mapstructure:"error_handling"`
	ExternalAPI   *float64 `mapstructure:"external_api"`
	TestMock      *float64 `mapstructure:"test_mock"`
	DynamicConfig *float64 `mapstructure:"dynamic_config"`
	LegacyCompat  *float64 `mapstructure:"legacy_compatibility"`
	ArrayType     *float64 `mapstructure:"array_type"`
	RecordType    *float64 `mapstructure:"record_type"`
	FunctionParam *float64 `mapstructure:"function_param"`
	ReturnType    *float64 `mapstructure:"return_type"`
	TypeAssertion *float64 `mapstructure:"type_assertion"`
}

// Config holds the runtime configuration for a campaign invocation.
// This struct remains the "final, validated" config.
type Config struct {
	ProjectPath string
	SourceDirs  []string
	PathFilter  string
	ResultLimit int
	Workers     int
	Excludes    []string
	Detail      bool
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	Profile             schema.CampaignProfile
	DryRun              bool
	BatchSize           int     // Initial batch size override (0 = profile default)
	ConfidenceThreshold float64 // Initial threshold override (0 = profile default)
	TargetPercent       float64 // Reduction target override (0 = profile default)
	MaxBatches          int
	SampleSize          int

	CheckCommand []string
	CheckTimeout time.Duration
	MaxBuildTime time.Duration
	RunTests     bool
	TestCommand  []string
	TestScope    string

	BackupDir  string // Root directory for per-run backup folders
	ReportsDir string
	EventLog   string // Path to the JSONL safety event log

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Tuning       schema.CampaignTuning       // Adaptation policy, defaults overlaid with the tuning section
	CategoryCaps map[schema.Category]float64 // Confidence ceilings, defaults overlaid with the caps section

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ProjectPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Filter           string `mapstructure:"filter"`
	SourceDirsStr    string `mapstructure:"source-dirs"`
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Exclude          string `mapstructure:"exclude"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	CheckCommand     string `mapstructure:"check-command"`
	CheckTimeout     string `mapstructure:"check-timeout"`
	BackupDir        string `mapstructure:"backup-dir"`
	ReportsDir       string `mapstructure:"reports-dir"`
	EventLog         string `mapstructure:"event-log"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from runCmd / pilotCmd flags ---
	DryRun        bool    `mapstructure:"dry-run"`
	BatchSize     int     `mapstructure:"batch-size"`
	Confidence    float64 `mapstructure:"confidence"`
	TargetPercent float64 `mapstructure:"target"`
	MaxBatches    int     `mapstructure:"max-batches"`
	MaxBuildTime  string  `mapstructure:"max-build-time"`
	RunTests      bool    `mapstructure:"run-tests"`
	TestCommand   string  `mapstructure:"test-command"`
	TestScope     string  `mapstructure:"test-scope"`

	// --- Fields from targetCmd flags ---
	SampleSize int `mapstructure:"sample"`

	// --- Adaptation policy and classifier ceilings from config file ---
	Tuning TuningRawInput `mapstructure:"tuning"`
	Caps   CapsRawInput   `mapstructure:"caps"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SourceDirs != nil {
		clone.SourceDirs = make([]string, len(c.SourceDirs))
		copy(clone.SourceDirs, c.SourceDirs)
	}
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.CheckCommand != nil {
		clone.CheckCommand = make([]string, len(c.CheckCommand))
		copy(clone.CheckCommand, c.CheckCommand)
	}
	if c.TestCommand != nil {
		clone.TestCommand = make([]string, len(c.TestCommand))
		copy(clone.TestCommand, c.TestCommand)
	}
	if c.CategoryCaps != nil {
		clone.CategoryCaps = make(map[schema.Category]float64, len(c.CategoryCaps))
		maps.Copy(clone.CategoryCaps, c.CategoryCaps)
	}
	return &clone
}

// InitialAdaptiveConfig returns the starting orchestration knobs for the run:
// the profile defaults overlaid with any explicit user overrides.
func (c *Config) InitialAdaptiveConfig() schema.AdaptiveConfig {
	ac := schema.GetDefaultAdaptiveConfig(c.Profile)
	if c.BatchSize > 0 {
		ac.MaxFilesPerBatch = c.BatchSize
	}
	if c.ConfidenceThreshold > 0 {
		ac.ConfidenceThreshold = c.ConfidenceThreshold
	}
	if c.TargetPercent > 0 {
		ac.TargetReductionPercent = c.TargetPercent
	}
	return ac
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, checker TypeChecker, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCampaignInputs(cfg, input); err != nil {
		return err
	}
	if err := processTuning(cfg, input); err != nil {
		return err
	}
	if err := processCategoryCaps(cfg, input); err != nil {
		return err
	}
	if err := processCheckerInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveProjectRootAndFilter(ctx, cfg, checker, input); err != nil {
		return err
	}
	processStoragePaths(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.PathFilter = input.Filter
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.DryRun = input.DryRun
	cfg.RunTests = input.RunTests
	cfg.TestScope = strings.TrimSpace(input.TestScope)

	// Parse emoji flag; empty means the flag default (on)
	cfg.UseEmojis = true
	if input.Emoji != "" {
		emojis, err := ParseBoolString(input.Emoji)
		if err != nil {
			return fmt.Errorf("invalid --emoji value: %w", err)
		}
		cfg.UseEmojis = emojis
	}

	// Parse color flag; empty means the flag default (on)
	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 1 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, markdown, parquet", cfg.Output)
	}

	// --- 4. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 5. Source Dirs Processing ---
	cfg.SourceDirs = nil
	for _, p := range strings.Split(input.SourceDirsStr, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			cfg.SourceDirs = append(cfg.SourceDirs, strings.TrimSuffix(trimmed, "/"))
		}
	}
	if len(cfg.SourceDirs) == 0 {
		cfg.SourceDirs = []string{"src"}
	}

	// --- 6. Excludes Processing ---
	defaults := []string{
		"node_modules/", ".git/", "dist/", "build/", "out/", "coverage/", ".next/", ".turbo/",
		"__generated__/",
		".gen.ts", ".generated.ts", ".min.js",
	}
	cfg.Excludes = defaults // Set defaults first

	if input.Exclude != "" {
		parts := strings.SplitSeq(input.Exclude, ",")
		for p := range parts {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.Excludes = append(cfg.Excludes, trimmedP)
			}
		}
	}

	return nil
}

// processCampaignInputs validates the orchestration knob overrides.
func processCampaignInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Batch Size Override ---
	if input.BatchSize < 0 || input.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch-size must be between 1 and %d (received %d)", MaxBatchSize, input.BatchSize)
	}
	cfg.BatchSize = input.BatchSize

	// --- 2. Confidence Threshold Override ---
	if input.Confidence != 0 {
		if input.Confidence < MinConfidenceThreshold || input.Confidence > MaxConfidenceThreshold {
			return fmt.Errorf("confidence must be between %.2f and %.2f (received %.2f)",
				MinConfidenceThreshold, MaxConfidenceThreshold, input.Confidence)
		}
	}
	cfg.ConfidenceThreshold = input.Confidence

	// --- 3. Reduction Target Override ---
	if input.TargetPercent < 0 || input.TargetPercent > 100 {
		return fmt.Errorf("target must be between 0 and 100 percent (received %.1f)", input.TargetPercent)
	}
	cfg.TargetPercent = input.TargetPercent

	// --- 4. Batch Cap ---
	cfg.MaxBatches = input.MaxBatches
	if cfg.MaxBatches <= 0 {
		cfg.MaxBatches = DefaultMaxBatches
	}

	// --- 5. Sample Size ---
	cfg.SampleSize = input.SampleSize
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = DefaultSampleSize
	}

	return nil
}

// processTuning overlays the config file's tuning section onto the default
// adaptation policy and validates the result. The policy numbers are
// empirical, so overrides are legal as long as they keep the adaptation
// rules coherent.
func processTuning(cfg *Config, input *ConfigRawInput) error {
	t := schema.DefaultCampaignTuning()
	raw := input.Tuning

	if raw.SafetyFloor != nil {
		t.SafetyFloor = *raw.SafetyFloor
	}
	if raw.ShrinkFactor != nil {
		t.ShrinkFactor = *raw.ShrinkFactor
	}
	if raw.GrowFactor != nil {
		t.GrowFactor = *raw.GrowFactor
	}
	if raw.ThresholdStepUp != nil {
		t.ThresholdStepUp = *raw.ThresholdStepUp
	}
	if raw.ThresholdStepDown != nil {
		t.ThresholdStepDown = *raw.ThresholdStepDown
	}
	if raw.MinBatchSize != nil {
		t.MinBatchSize = *raw.MinBatchSize
	}
	if raw.CheckpointSlack != nil {
		t.CheckpointSlack = *raw.CheckpointSlack
	}

	if t.SafetyFloor <= 0 || t.SafetyFloor >= 1 {
		return fmt.Errorf("tuning safety_floor must be between 0 and 1 exclusive (received %.2f)", t.SafetyFloor)
	}
	if t.ShrinkFactor <= 0 || t.ShrinkFactor >= 1 {
		return fmt.Errorf("tuning shrink_factor must be between 0 and 1 exclusive (received %.2f)", t.ShrinkFactor)
	}
	if t.GrowFactor <= 1 {
		return fmt.Errorf("tuning grow_factor must be greater than 1 (received %.2f)", t.GrowFactor)
	}
	if t.ThresholdStepUp <= 0 || t.ThresholdStepUp >= 0.5 {
		return fmt.Errorf("tuning threshold_step_up must be between 0 and 0.5 exclusive (received %.2f)", t.ThresholdStepUp)
	}
	if t.ThresholdStepDown <= 0 || t.ThresholdStepDown >= 0.5 {
		return fmt.Errorf("tuning threshold_step_down must be between 0 and 0.5 exclusive (received %.2f)", t.ThresholdStepDown)
	}
	if t.MinBatchSize < 1 || t.MinBatchSize > MaxBatchSize {
		return fmt.Errorf("tuning min_batch_size must be between 1 and %d (received %d)", MaxBatchSize, t.MinBatchSize)
	}
	if t.CheckpointSlack < 0 {
		return fmt.Errorf("tuning checkpoint_slack cannot be negative (received %d)", t.CheckpointSlack)
	}

	cfg.Tuning = t
	return nil
}

// ProcessCapsRawInput converts CapsRawInput into the effective per-category
// confidence ceiling map: the defaults overlaid with whatever the config file
// provides. Each override must be above 0 and at most 1.
func ProcessCapsRawInput(raw CapsRawInput) (map[schema.Category]float64, error) {
	caps := schema.DefaultCategoryCaps()

	overrides := map[schema.Category]*float64{
		schema.ErrorHandlingCategory: raw.ErrorHandling,
		schema.ExternalAPICategory:   raw.ExternalAPI,
		schema.TestMockCategory:      raw.TestMock,
		schema.DynamicConfigCategory: raw.DynamicConfig,
		schema.LegacyCompatCategory:  raw.LegacyCompat,
		schema.ArrayTypeCategory:     raw.ArrayType,
		schema.RecordTypeCategory:    raw.RecordType,
		schema.FunctionParamCategory: raw.FunctionParam,
		schema.ReturnTypeCategory:    raw.ReturnType,
		schema.TypeAssertionCategory: raw.TypeAssertion,
	}

	for _, category := range schema.AllCategories {
		override := overrides[category]
		if override == nil {
			continue
		}
		if *override <= 0 || *override > 1 {
			return nil, fmt.Errorf("caps %s must be above 0 and at most 1 (received %.2f)", category, *override)
		}
		caps[category] = *override
	}

	return caps, nil
}

// processCategoryCaps resolves the classifier's confidence ceilings from the
// caps section of the config file.
func processCategoryCaps(cfg *Config, input *ConfigRawInput) error {
	caps, err := ProcessCapsRawInput(input.Caps)
	if err != nil {
		return err
	}
	cfg.CategoryCaps = caps
	return nil
}

// processCheckerInputs parses the compiler and test invocation settings.
func processCheckerInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Check Command ---
	cfg.CheckCommand = strings.Fields(input.CheckCommand)
	if len(cfg.CheckCommand) == 0 {
		cfg.CheckCommand = []string{"npx", "tsc", "--noEmit"}
	}

	// --- 2. Check Timeout ---
	cfg.CheckTimeout = DefaultCheckTimeout
	if input.CheckTimeout != "" {
		d, err := ParseTimeoutDuration(input.CheckTimeout)
		if err != nil {
			return fmt.Errorf("invalid --check-timeout: %w", err)
		}
		cfg.CheckTimeout = d
	}

	// --- 3. Max Build Time ---
	cfg.MaxBuildTime = DefaultMaxBuildTime
	if input.MaxBuildTime != "" {
		d, err := ParseTimeoutDuration(input.MaxBuildTime)
		if err != nil {
			return fmt.Errorf("invalid --max-build-time: %w", err)
		}
		cfg.MaxBuildTime = d
	}

	// --- 4. Test Command ---
	cfg.TestCommand = strings.Fields(input.TestCommand)
	if len(cfg.TestCommand) == 0 {
		cfg.TestCommand = []string{"npx", "jest", "--silent"}
	}

	return nil
}

// processStoragePaths resolves the backup, report and event log locations
// relative to the project root unless given as absolute paths.
func processStoragePaths(cfg *Config, input *ConfigRawInput) {
	resolve := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(cfg.ProjectPath, p)
	}
	cfg.BackupDir = resolve(input.BackupDir, filepath.Join(".typesweep", "backups"))
	cfg.ReportsDir = resolve(input.ReportsDir, filepath.Join(".typesweep", "reports"))
	cfg.EventLog = resolve(input.EventLog, filepath.Join(".typesweep", "events.jsonl"))
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveProjectRootAndFilter resolves the project root path and sets the implicit path filter.
func resolveProjectRootAndFilter(ctx context.Context, cfg *Config, checker TypeChecker, input *ConfigRawInput) error {
	searchPath := input.ProjectPathStr
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	projectContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		projectContextPath = filepath.Dir(absSearchPath)
	}

	projectRoot, err := checker.ResolveRoot(ctx, projectContextPath)
	if err != nil {
		return err
	}

	cfg.ProjectPath = projectRoot

	if cfg.PathFilter != "" { // User-provided --filter flag takes precedence
		return nil
	}

	if absSearchPath != projectRoot {
		relativePath, err := filepath.Rel(projectRoot, absSearchPath)
		if err != nil {
			return err
		}

		if relativePath != "." {
			filter := relativePath
			if statErr == nil && info.IsDir() {
				filter += "/"
			}
			cfg.PathFilter = strings.ReplaceAll(filter, string(os.PathSeparator), "/")
		}
	}

	return nil
}
