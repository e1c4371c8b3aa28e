// Package classify decides whether an "any" annotation is deliberate.
package classify

import (
	"regexp"
	"strings"

	"github.com/alchm-kitchen/typesweep/schema"
)

// Signal weights shared by the keyword-driven scorers. The per-category
// confidence ceilings live in schema.DefaultCategoryCaps and reach the
// scorers through the engine, so the caps section of the config file can
// override them.
const (
	strongSignal  = 0.60 // one unambiguous syntactic hit
	keywordSignal = 0.15 // each supporting keyword occurrence
)

// Syntactic shapes checked by the scorers. These run against the raw snippet;
// keyword matching runs against the lowercased snippet+surrounding text.
var (
	catchParamRe   = regexp.MustCompile(`catch\s*\(\s*\w+\s*:\s*any`)
	fetchCallRe    = regexp.MustCompile(`\bfetch\s*\(|\baxios\b|\.json\(\)`)
	jsonParseRe    = regexp.MustCompile(`JSON\.parse\s*\(`)
	processEnvRe   = regexp.MustCompile(`process\.env`)
	arrayShapeRe   = regexp.MustCompile(`:\s*any\[\]|\bArray<\s*any\s*>`)
	recordShapeRe  = regexp.MustCompile(`\bRecord<\s*[^,<>]+,\s*any\s*>`)
	indexSigRe     = regexp.MustCompile(`\[\s*\w+\s*:\s*(?:string|number|symbol)\s*\]\s*:\s*any\b`)
	paramShapeRe   = regexp.MustCompile(`\([^)]*\w+\s*:\s*any\b[^)]*\)`)
	returnShapeRe  = regexp.MustCompile(`\)\s*:\s*any\b`)
	asAssertionRe  = regexp.MustCompile(`\bas\s+any\b`)
	mockCallRe     = regexp.MustCompile(`\bjest\.\w+|\bvi\.\w+|\bsinon\.\w+|mockReturnValue|mockResolvedValue`)
	errorKeywords  = []string{"error", "err", "exception", "throw", "catch", "reject"}
	apiKeywords    = []string{"api", "response", "request", "endpoint", "http", "payload"}
	mockKeywords   = []string{"mock", "stub", "spy", "fake", "fixture"}
	configKeywords = []string{"config", "settings", "options", "env", "flags"}
	legacyKeywords = []string{"legacy", "deprecated", "compat", "backward", "migration", "old"}
)

// scorer computes one category's confidence for a context, before
// contextual adjustment. The ceiling is that category's cap; the container
// scorers return it outright since their shapes either match or don't.
// Scorers are pure: same context and ceiling, same score.
type scorer func(ctx schema.ClassificationContext, ceiling float64) float64

// scorerRegistry maps every category to its scorer. The registry is the
// single source of truth for pattern scoring; the rules command and the MCP
// rules tool render their output from it.
var scorerRegistry = map[schema.Category]scorer{
	schema.ErrorHandlingCategory: scoreErrorHandling,
	schema.ExternalAPICategory:   scoreExternalAPI,
	schema.TestMockCategory:      scoreTestMock,
	schema.DynamicConfigCategory: scoreDynamicConfig,
	schema.LegacyCompatCategory:  scoreLegacy,
	schema.ArrayTypeCategory:     scoreArrayType,
	schema.RecordTypeCategory:    scoreRecordType,
	schema.FunctionParamCategory: scoreFunctionParam,
	schema.ReturnTypeCategory:    scoreReturnType,
	schema.TypeAssertionCategory: scoreTypeAssertion,
}

// contextText joins the snippet and surrounding window for keyword matching.
func contextText(ctx schema.ClassificationContext) string {
	if len(ctx.Surrounding) == 0 {
		return strings.ToLower(ctx.Snippet)
	}
	return strings.ToLower(ctx.Snippet + "\n" + strings.Join(ctx.Surrounding, "\n"))
}

// keywordScore accumulates keywordSignal per keyword occurrence in the text.
func keywordScore(text string, keywords []string) float64 {
	var score float64
	for _, kw := range keywords {
		score += float64(strings.Count(text, kw)) * keywordSignal
	}
	return score
}

func scoreErrorHandling(ctx schema.ClassificationContext, ceiling float64) float64 {
	var score float64
	if catchParamRe.MatchString(ctx.Snippet) {
		score += 0.90 // catch parameters are the canonical intentional any
	}
	score += keywordScore(contextText(ctx), errorKeywords)
	return min(score, ceiling)
}

func scoreExternalAPI(ctx schema.ClassificationContext, ceiling float64) float64 {
	var score float64
	if fetchCallRe.MatchString(ctx.Snippet) || fetchCallRe.MatchString(strings.Join(ctx.Surrounding, "\n")) {
		score += strongSignal
	}
	score += keywordScore(contextText(ctx), apiKeywords)
	return min(score, ceiling)
}

func scoreTestMock(ctx schema.ClassificationContext, ceiling float64) float64 {
	// Mock evidence outside a test file proves nothing about intent.
	if !ctx.IsTestFile {
		return 0
	}
	var score float64
	if mockCallRe.MatchString(ctx.Snippet) || mockCallRe.MatchString(strings.Join(ctx.Surrounding, "\n")) {
		score += strongSignal
	}
	score += keywordScore(contextText(ctx), mockKeywords)
	return min(score, ceiling)
}

func scoreDynamicConfig(ctx schema.ClassificationContext, ceiling float64) float64 {
	var score float64
	text := contextText(ctx)
	if jsonParseRe.MatchString(ctx.Snippet) {
		score += strongSignal
	}
	if processEnvRe.MatchString(ctx.Snippet) {
		score += strongSignal
	}
	score += keywordScore(text, configKeywords)
	return min(score, ceiling)
}

func scoreLegacy(ctx schema.ClassificationContext, ceiling float64) float64 {
	score := keywordScore(contextText(ctx), legacyKeywords)
	// An attached comment mentioning migration work is a stronger signal
	// than the same words in nearby code.
	if ctx.HasComment {
		comment := strings.ToLower(ctx.CommentText)
		for _, kw := range legacyKeywords {
			if strings.Contains(comment, kw) {
				score += 0.30
				break
			}
		}
	}
	return min(score, ceiling)
}

func scoreArrayType(ctx schema.ClassificationContext, ceiling float64) float64 {
	if arrayShapeRe.MatchString(ctx.Snippet) {
		return ceiling
	}
	return 0
}

func scoreRecordType(ctx schema.ClassificationContext, ceiling float64) float64 {
	if recordShapeRe.MatchString(ctx.Snippet) || indexSigRe.MatchString(ctx.Snippet) {
		return ceiling
	}
	return 0
}

func scoreFunctionParam(ctx schema.ClassificationContext, ceiling float64) float64 {
	// Return annotations also contain "): any" but belong to RETURN_TYPE.
	if returnShapeRe.MatchString(ctx.Snippet) && !paramShapeRe.MatchString(ctx.Snippet) {
		return 0
	}
	if paramShapeRe.MatchString(ctx.Snippet) {
		return ceiling
	}
	return 0
}

func scoreReturnType(ctx schema.ClassificationContext, ceiling float64) float64 {
	if returnShapeRe.MatchString(ctx.Snippet) {
		return ceiling
	}
	return 0
}

func scoreTypeAssertion(ctx schema.ClassificationContext, ceiling float64) float64 {
	if asAssertionRe.MatchString(ctx.Snippet) {
		return ceiling
	}
	return 0
}
