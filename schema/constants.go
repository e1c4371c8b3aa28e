package schema

// Custom string types for type safety.
type (
	// Category represents the classification category of an any occurrence.
	Category string

	// Domain represents the coarse subject-matter tag for a code location.
	Domain string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for campaign history.
	DatabaseBackend string

	// CampaignState represents a state of the orchestration loop.
	CampaignState string

	// CampaignProfile represents an operating profile for a run.
	CampaignProfile string

	// SafetyLevel represents how aggressively a run is allowed to behave.
	SafetyLevel string

	// Severity represents the severity of a safety event.
	Severity string
)

// All classification categories supported.
const (
	ErrorHandlingCategory Category = "error_handling"
	ExternalAPICategory   Category = "external_api"
	TestMockCategory      Category = "test_mock"
	DynamicConfigCategory Category = "dynamic_config"
	LegacyCompatCategory  Category = "legacy_compatibility"
	ArrayTypeCategory     Category = "array_type"
	RecordTypeCategory    Category = "record_type"
	FunctionParamCategory Category = "function_param"
	ReturnTypeCategory    Category = "return_type"
	TypeAssertionCategory Category = "type_assertion"
)

// All code domains supported.
const (
	AstrologicalDomain Domain = "astrological"
	RecipeDomain       Domain = "recipe"
	CampaignDomain     Domain = "campaign"
	ServiceDomain      Domain = "service"
	IntelligenceDomain Domain = "intelligence"
	ComponentDomain    Domain = "component"
	UtilityDomain      Domain = "utility"
	TestDomain         Domain = "test"
	ConfigDomain       Domain = "config"
	TypesDomain        Domain = "types"
	UnknownDomain      Domain = "unknown" // default
)

// All output modes supported.
const (
	CSVOut      OutputMode = "csv"
	TextOut     OutputMode = "text" // default
	JSONOut     OutputMode = "json"
	MarkdownOut OutputMode = "markdown"
	ParquetOut  OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All orchestration states supported.
const (
	IdleState          CampaignState = "idle" // initial
	BatchSelectState   CampaignState = "batch_select"
	BatchExecuteState  CampaignState = "batch_execute"
	BatchValidateState CampaignState = "batch_validate"
	AdaptState         CampaignState = "adapt"
	CompleteState      CampaignState = "complete" // terminal
	AbortedState       CampaignState = "aborted"  // terminal
)

// All campaign profiles supported.
const (
	FullProfile  CampaignProfile = "full" // default
	PilotProfile CampaignProfile = "pilot"
)

// All safety levels supported.
const (
	ConservativeSafety SafetyLevel = "conservative"
	ModerateSafety     SafetyLevel = "moderate" // default
	AggressiveSafety   SafetyLevel = "aggressive"
)

// All safety event severities supported.
const (
	InfoSeverity  Severity = "info"
	WarnSeverity  Severity = "warn"
	ErrorSeverity Severity = "error"
	FatalSeverity Severity = "fatal"
)

// AllCategories returns a list of all supported categories in display order.
var AllCategories = []Category{
	ErrorHandlingCategory,
	ExternalAPICategory,
	TestMockCategory,
	DynamicConfigCategory,
	LegacyCompatCategory,
	ArrayTypeCategory,
	RecordTypeCategory,
	FunctionParamCategory,
	ReturnTypeCategory,
	TypeAssertionCategory,
}

// AllDomains returns a list of all supported domains in display order.
var AllDomains = []Domain{
	AstrologicalDomain,
	RecipeDomain,
	CampaignDomain,
	ServiceDomain,
	IntelligenceDomain,
	ComponentDomain,
	UtilityDomain,
	TestDomain,
	ConfigDomain,
	TypesDomain,
	UnknownDomain,
}

// IntentionalCategories lists categories whose occurrences are preserved.
var IntentionalCategories = map[Category]struct{}{
	ErrorHandlingCategory: {},
	ExternalAPICategory:   {},
	TestMockCategory:      {},
	DynamicConfigCategory: {},
	LegacyCompatCategory:  {},
}

// UnintentionalCategories lists categories whose occurrences are replacement targets.
var UnintentionalCategories = map[Category]struct{}{
	ArrayTypeCategory:     {},
	RecordTypeCategory:    {},
	FunctionParamCategory: {},
	ReturnTypeCategory:    {},
	TypeAssertionCategory: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:      {},
	TextOut:     {},
	JSONOut:     {},
	MarkdownOut: {},
	ParquetOut:  {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidProfiles lists all valid campaign profiles.
var ValidProfiles = map[CampaignProfile]struct{}{
	FullProfile:  {},
	PilotProfile: {},
}

// ValidSafetyLevels lists all valid safety levels.
var ValidSafetyLevels = map[SafetyLevel]struct{}{
	ConservativeSafety: {},
	ModerateSafety:     {},
	AggressiveSafety:   {},
}

// IsIntentionalCategory reports whether the category belongs to the
// preservation set.
func IsIntentionalCategory(c Category) bool {
	_, ok := IntentionalCategories[c]
	return ok
}

// DefaultCategoryCaps returns the per-category confidence ceilings used by
// pattern scoring. Intentional categories saturate below 1.0 because textual
// evidence alone never proves intent; the two container categories are
// near-binary since their shapes either match or don't. Individual caps can
// be overridden through the caps section of the config file.
func DefaultCategoryCaps() map[Category]float64 {
	return map[Category]float64{
		ErrorHandlingCategory: 0.95,
		ExternalAPICategory:   0.90,
		TestMockCategory:      0.90,
		DynamicConfigCategory: 0.85,
		LegacyCompatCategory:  0.80,
		ArrayTypeCategory:     0.95,
		RecordTypeCategory:    0.85,
		FunctionParamCategory: 0.75,
		ReturnTypeCategory:    0.75,
		TypeAssertionCategory: 0.80,
	}
}

// GetDefaultAdaptiveConfig returns the starting knobs for a given profile.
// The pilot profile starts smaller, demands more confidence and validates
// more often than the full campaign.
func GetDefaultAdaptiveConfig(profile CampaignProfile) AdaptiveConfig {
	switch profile {
	case PilotProfile:
		return AdaptiveConfig{
			MaxFilesPerBatch:       12,
			TargetReductionPercent: 10,
			ConfidenceThreshold:    0.8,
			SafetyLevel:            ConservativeSafety,
			ValidationFrequency:    3,
		}
	default: // FullProfile
		return AdaptiveConfig{
			MaxFilesPerBatch:       15,
			TargetReductionPercent: 15,
			ConfidenceThreshold:    0.8,
			SafetyLevel:            ModerateSafety,
			ValidationFrequency:    5,
		}
	}
}
