package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchm-kitchen/typesweep/schema"
)

func TestScoreErrorHandlingCatchParam(t *testing.T) {
	ctx := schema.ClassificationContext{
		Snippet:     "} catch (e: any) {",
		Surrounding: []string{"try {", "  parse(raw);", "}"},
	}
	score := scoreErrorHandling(ctx, 0.95)
	assert.InDelta(t, 0.95, score, 1e-9, "catch shape plus keywords should saturate at the ceiling")
	assert.InDelta(t, 0.80, scoreErrorHandling(ctx, 0.80), 1e-9, "a lower ceiling bounds the same evidence")

	bare := schema.ClassificationContext{Snippet: "const x: any = 1;"}
	assert.Zero(t, scoreErrorHandling(bare, 0.95), "no error vocabulary, no score")
}

func TestScoreTestMockZeroOutsideTests(t *testing.T) {
	ctx := schema.ClassificationContext{
		Snippet:     "const mockUser: any = buildMock();",
		Surrounding: []string{"const spy = jest.fn();"},
		IsTestFile:  false,
	}
	assert.Zero(t, scoreTestMock(ctx, 0.90), "mock vocabulary outside a test file must score zero")

	ctx.IsTestFile = true
	assert.Greater(t, scoreTestMock(ctx, 0.90), 0.7, "the same evidence inside a test file should score high")
}

func TestScoreArrayTypeNearBinary(t *testing.T) {
	hits := []string{
		"const items: any[] = [];",
		"function take(xs: Array<any>) {",
		"let queue: any[];",
	}
	for _, snippet := range hits {
		score := scoreArrayType(schema.ClassificationContext{Snippet: snippet}, 0.95)
		assert.InDelta(t, 0.95, score, 1e-9, "array shape should return the ceiling for %q", snippet)
	}

	misses := []string{
		"const items: string[] = [];",
		"const anything = [];",
		"const lookup: Record<string, any> = {};",
	}
	for _, snippet := range misses {
		assert.Zero(t, scoreArrayType(schema.ClassificationContext{Snippet: snippet}, 0.95), "no array-of-any shape in %q", snippet)
	}
}

func TestScoreRecordTypeShapes(t *testing.T) {
	hits := []string{
		"const lookup: Record<string, any> = {};",
		"const byID: Record<number, any> = load();",
		"  [key: string]: any;",
	}
	for _, snippet := range hits {
		score := scoreRecordType(schema.ClassificationContext{Snippet: snippet}, 0.85)
		assert.InDelta(t, 0.85, score, 1e-9, "record shape should return the ceiling for %q", snippet)
	}

	assert.Zero(t, scoreRecordType(schema.ClassificationContext{Snippet: "const m: Record<string, number> = {};"}, 0.85),
		"typed record values should not score")
}

func TestScoreFunctionParamVsReturn(t *testing.T) {
	param := schema.ClassificationContext{Snippet: "function f(x: any) {"}
	assert.InDelta(t, 0.75, scoreFunctionParam(param, 0.75), 1e-9)
	assert.Zero(t, scoreReturnType(param, 0.75), "param annotation is not a return annotation")

	ret := schema.ClassificationContext{Snippet: "function g(): any {"}
	assert.Zero(t, scoreFunctionParam(ret, 0.75), "return annotation must not count as a parameter")
	assert.InDelta(t, 0.75, scoreReturnType(ret, 0.75), 1e-9)

	both := schema.ClassificationContext{Snippet: "function h(x: any): any {"}
	assert.InDelta(t, 0.75, scoreFunctionParam(both, 0.75), 1e-9, "param shape present, param scorer fires")
	assert.InDelta(t, 0.75, scoreReturnType(both, 0.75), 1e-9, "return shape present, return scorer fires")
}

func TestAdjustScoresContextBoost(t *testing.T) {
	ctx := schema.ClassificationContext{
		Snippet:     "} catch (e: any) {",
		Surrounding: []string{"try {", "  throw new Error('boom');"},
	}
	raw := map[schema.Category]float64{
		schema.ErrorHandlingCategory: 0.5,
		schema.ExternalAPICategory:   0.5,
	}

	adjusted := adjustScores(raw, ctx)
	assert.InDelta(t, 0.6, adjusted[schema.ErrorHandlingCategory], 1e-9, "matching context multiplies by 1.2")
	assert.InDelta(t, 0.5, adjusted[schema.ExternalAPICategory], 1e-9, "no API context, no boost")
	assert.InDelta(t, 0.5, raw[schema.ErrorHandlingCategory], 1e-9, "input map must not be modified")
}

func TestAdjustScoresTypeDefDamp(t *testing.T) {
	ctx := schema.ClassificationContext{
		Snippet:       "export function parse(x: any): Config;",
		IsTypeDefFile: true,
	}
	adjusted := adjustScores(map[schema.Category]float64{
		schema.FunctionParamCategory: 0.75,
	}, ctx)
	assert.InDelta(t, 0.6, adjusted[schema.FunctionParamCategory], 1e-9, "declaration files damp by 0.8")
}

func TestAdjustScoresAssertionInComplexLogic(t *testing.T) {
	ctx := schema.ClassificationContext{
		Snippet: "const v = data as any;",
		Surrounding: []string{
			"if (a) {",
			"  for (const x of xs) {",
			"    out.push(xs.map(f));",
		},
	}
	adjusted := adjustScores(map[schema.Category]float64{
		schema.TypeAssertionCategory: 0.8,
	}, ctx)
	assert.InDelta(t, 0.56, adjusted[schema.TypeAssertionCategory], 1e-9, "assertions amid branching logic damp by 0.7")
}

func TestAdjustScoresClampsToOne(t *testing.T) {
	ctx := schema.ClassificationContext{
		Snippet:     "} catch (e: any) {",
		Surrounding: []string{"try {"},
	}
	adjusted := adjustScores(map[schema.Category]float64{
		schema.ErrorHandlingCategory: 0.95,
	}, ctx)
	assert.InDelta(t, 1.0, adjusted[schema.ErrorHandlingCategory], 1e-9, "boosted scores clamp at 1.0")
}

func TestPickWinner(t *testing.T) {
	scores := map[schema.Category]float64{
		schema.ErrorHandlingCategory: 0.8,
		schema.ArrayTypeCategory:     0.95,
	}
	category, score, ok := pickWinner(scores, 0.7)
	assert.True(t, ok)
	assert.Equal(t, schema.ArrayTypeCategory, category)
	assert.InDelta(t, 0.95, score, 1e-9)

	_, _, ok = pickWinner(map[schema.Category]float64{
		schema.LegacyCompatCategory: 0.69,
	}, 0.7)
	assert.False(t, ok, "scores below the threshold never win")

	// Ties resolve by display order, first listed wins.
	category, _, ok = pickWinner(map[schema.Category]float64{
		schema.ErrorHandlingCategory: 0.8,
		schema.ExternalAPICategory:   0.8,
	}, 0.7)
	assert.True(t, ok)
	assert.Equal(t, schema.ErrorHandlingCategory, category, "tie should resolve deterministically")
}
