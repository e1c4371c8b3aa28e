package classify

import (
	"strings"

	"github.com/alchm-kitchen/typesweep/schema"
)

// Rules returns the category rule table in display order with the given
// confidence ceilings; nil selects the defaults. Keep the entries in step
// with the scorers; the rules command and the MCP rules tool render exactly
// what this returns, so configured cap overrides show up in both.
func Rules(caps map[schema.Category]float64) []schema.ClassificationRule {
	if caps == nil {
		caps = schema.DefaultCategoryCaps()
	}
	return []schema.ClassificationRule{
		{
			Category:    schema.ErrorHandlingCategory,
			Intentional: true,
			MaxScore:    caps[schema.ErrorHandlingCategory],
			Signals: []string{
				"catch parameter annotated as any",
				"keywords: " + strings.Join(errorKeywords, ", "),
			},
		},
		{
			Category:    schema.ExternalAPICategory,
			Intentional: true,
			MaxScore:    caps[schema.ExternalAPICategory],
			Signals: []string{
				"fetch/axios call or .json() in reach",
				"keywords: " + strings.Join(apiKeywords, ", "),
			},
		},
		{
			Category:    schema.TestMockCategory,
			Intentional: true,
			MaxScore:    caps[schema.TestMockCategory],
			Signals: []string{
				"test file only; zero elsewhere",
				"jest/vi/sinon mock calls",
				"keywords: " + strings.Join(mockKeywords, ", "),
			},
		},
		{
			Category:    schema.DynamicConfigCategory,
			Intentional: true,
			MaxScore:    caps[schema.DynamicConfigCategory],
			Signals: []string{
				"JSON.parse or process.env in snippet",
				"keywords: " + strings.Join(configKeywords, ", "),
			},
		},
		{
			Category:    schema.LegacyCompatCategory,
			Intentional: true,
			MaxScore:    caps[schema.LegacyCompatCategory],
			Signals: []string{
				"keywords: " + strings.Join(legacyKeywords, ", "),
				"migration vocabulary in an attached comment",
			},
		},
		{
			Category:    schema.ArrayTypeCategory,
			Intentional: false,
			MaxScore:    caps[schema.ArrayTypeCategory],
			Signals:     []string{"any[] or Array<any> annotation"},
			Replacement: "unknown[]",
		},
		{
			Category:    schema.RecordTypeCategory,
			Intentional: false,
			MaxScore:    caps[schema.RecordTypeCategory],
			Signals:     []string{"Record<K, any> or index signature valued any"},
			Replacement: "Record<K, unknown>",
		},
		{
			Category:    schema.FunctionParamCategory,
			Intentional: false,
			MaxScore:    caps[schema.FunctionParamCategory],
			Signals:     []string{"parameter annotated as any inside a signature"},
			Replacement: "unknown or a domain type hint",
		},
		{
			Category:    schema.ReturnTypeCategory,
			Intentional: false,
			MaxScore:    caps[schema.ReturnTypeCategory],
			Signals:     []string{"return position annotated as any"},
			Replacement: "unknown or a domain type hint",
		},
		{
			Category:    schema.TypeAssertionCategory,
			Intentional: false,
			MaxScore:    caps[schema.TypeAssertionCategory],
			Signals: []string{
				"as any assertion",
				"damped when surrounded by branching logic",
			},
			Replacement: "unknown",
		},
	}
}
