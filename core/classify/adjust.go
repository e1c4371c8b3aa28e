package classify

import (
	"regexp"
	"strings"

	"github.com/alchm-kitchen/typesweep/schema"
)

// Contextual multipliers applied to raw pattern scores. Matching context
// reinforces a category; a type-definition file dampens everything because
// declaration files describe shapes rather than use them; an assertion in
// the middle of branching logic is usually a shortcut, not a decision.
const (
	matchingContextBoost = 1.2
	typeDefFileDamp      = 0.8
	assertionInLogicDamp = 0.7

	// complexLogicThreshold is the number of control-flow keywords in the
	// surrounding window beyond which the code counts as complex.
	complexLogicThreshold = 2
)

var (
	errorContextRe = regexp.MustCompile(`\btry\b|\bcatch\b|\.catch\(|\bthrow\b`)
	apiContextRe   = regexp.MustCompile(`\bfetch\s*\(|\baxios\b|\bawait\b.*\.json\(\)|/api/`)
	testContextRe  = regexp.MustCompile(`\bdescribe\s*\(|\bit\s*\(|\btest\s*\(|\bexpect\s*\(`)
	logicKeywordRe = regexp.MustCompile(`\bif\b|\bfor\b|\bwhile\b|\bswitch\b|\.map\(|\.filter\(|\.reduce\(`)
)

// adjustScores applies the contextual multipliers to every raw score and
// clamps the results to [0,1]. The input map is not modified.
func adjustScores(scores map[schema.Category]float64, ctx schema.ClassificationContext) map[schema.Category]float64 {
	window := strings.Join(ctx.Surrounding, "\n")
	full := ctx.Snippet + "\n" + window

	hasErrorContext := errorContextRe.MatchString(full)
	hasAPIContext := apiContextRe.MatchString(full)
	hasTestContext := ctx.IsTestFile || testContextRe.MatchString(full)
	hasComplexLogic := len(logicKeywordRe.FindAllString(window, -1)) > complexLogicThreshold

	adjusted := make(map[schema.Category]float64, len(scores))
	for category, score := range scores {
		switch {
		case category == schema.ErrorHandlingCategory && hasErrorContext:
			score *= matchingContextBoost
		case category == schema.ExternalAPICategory && hasAPIContext:
			score *= matchingContextBoost
		case category == schema.TestMockCategory && hasTestContext:
			score *= matchingContextBoost
		case category == schema.DynamicConfigCategory && ctx.IsConfigFile:
			score *= matchingContextBoost
		}
		if ctx.IsTypeDefFile {
			score *= typeDefFileDamp
		}
		if category == schema.TypeAssertionCategory && hasComplexLogic {
			score *= assertionInLogicDamp
		}
		adjusted[category] = schema.Clamp01(score)
	}
	return adjusted
}
