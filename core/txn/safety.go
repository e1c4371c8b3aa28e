package txn

import (
	"regexp"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/scan"
	"github.com/alchm-kitchen/typesweep/schema"
)

// DefaultMinSafetyScore is the score floor a replacement must clear before
// the campaign acts on it.
const DefaultMinSafetyScore = 0.7

// Context-risk shaping. The base is neutral; surrounding evidence moves it.
const (
	contextBase         = 0.85
	errorContextPenalty = 0.25
	apiContextPenalty   = 0.15
	commentPenalty      = 0.20
	testFileReward      = 0.10
)

// Pattern risk per syntactic shape. Container types rewrite cleanly to their
// unknown equivalents; signature and assertion rewrites can break callers.
const (
	arrayRisk     = 0.95
	genericRisk   = 0.92
	recordRisk    = 0.90
	signatureRisk = 0.60
	assertionRisk = 0.65
	defaultRisk   = 0.70
)

// File-type risk. Type definitions ripple through every consumer, so they
// sit at the bottom of the scale.
const (
	testFileRisk    = 0.90
	typeDefFileRisk = 0.50
	configFileRisk  = 0.65
	defaultFileRisk = 0.80
)

var (
	paramLikeRe  = regexp.MustCompile(`\([^)]*\w+\s*:\s*any\b[^)]*\)`)
	returnLikeRe = regexp.MustCompile(`\)\s*:\s*any\b`)

	errorContextWords = []string{"error", "err", "exception", "throw", "catch", "reject"}
	apiContextWords   = []string{"api", "response", "request", "endpoint", "http", "payload"}
)

// CalculateSafetyScore composes a risk estimate for one replacement from four
// equally weighted components: classification confidence, surrounding
// context, the syntactic pattern being rewritten, and the host file type.
// A non-positive minScore falls back to DefaultMinSafetyScore.
func CalculateSafetyScore(r schema.Replacement, cctx schema.ClassificationContext, minScore float64) schema.SafetyAssessment {
	if minScore <= 0 {
		minScore = DefaultMinSafetyScore
	}

	a := schema.SafetyAssessment{Confidence: schema.Clamp01(r.Confidence)}
	a.ContextRisk = contextRisk(cctx)
	a.PatternRisk, a.Warnings = patternRisk(r.Original)
	a.FileTypeRisk = fileTypeRisk(cctx)
	a.Score = schema.Mean([]float64{a.Confidence, a.ContextRisk, a.PatternRisk, a.FileTypeRisk})
	a.IsValid = a.Score >= minScore
	return a
}

// contextRisk scores the surroundings of an occurrence. Error-handling and
// API plumbing are where a deliberate any most often hides, and an attached
// comment usually marks one, so all three depress the score. Test files are
// the cheapest place to be wrong.
func contextRisk(cctx schema.ClassificationContext) float64 {
	risk := contextBase

	text := strings.ToLower(cctx.Snippet)
	if len(cctx.Surrounding) > 0 {
		text += "\n" + strings.ToLower(strings.Join(cctx.Surrounding, "\n"))
	}
	if containsAnyWord(text, errorContextWords) {
		risk -= errorContextPenalty
	}
	if containsAnyWord(text, apiContextWords) {
		risk -= apiContextPenalty
	}
	if cctx.HasComment {
		risk -= commentPenalty
	}
	if cctx.IsTestFile {
		risk += testFileReward
	}
	return schema.Clamp01(risk)
}

// patternRisk scores the syntactic shape of the line under rewrite and
// returns warnings for shapes that can break code beyond the mutated line.
func patternRisk(line string) (float64, []string) {
	pattern, ok := scan.MatchLine(line)
	if !ok {
		return defaultRisk, nil
	}

	switch pattern {
	case scan.PatternArray:
		return arrayRisk, nil
	case scan.PatternGenericArray:
		return genericRisk, nil
	case scan.PatternRecord, scan.PatternIndexSignature:
		return recordRisk, nil
	case scan.PatternAssertion:
		return assertionRisk, []string{"assertion rewrite can surface hidden type errors at the use site"}
	}

	// Plain annotations split by position: signature types are public
	// surface, local annotations are not.
	switch {
	case paramLikeRe.MatchString(line):
		return signatureRisk, []string{"parameter type change can break callers"}
	case returnLikeRe.MatchString(line):
		return signatureRisk, []string{"return type change can break callers"}
	default:
		return defaultRisk, nil
	}
}

// fileTypeRisk scores the host file. Flags are checked from safest to
// riskiest so a test file under a types path still counts as a test.
func fileTypeRisk(cctx schema.ClassificationContext) float64 {
	switch {
	case cctx.IsTestFile:
		return testFileRisk
	case cctx.IsTypeDefFile:
		return typeDefFileRisk
	case cctx.IsConfigFile:
		return configFileRisk
	default:
		return defaultFileRisk
	}
}

// containsAnyWord reports whether any keyword occurs in the text.
func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
