package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchm-kitchen/typesweep/schema"
)

func TestRulesCoverEveryCategory(t *testing.T) {
	rules := Rules(nil)
	require.Len(t, rules, len(schema.AllCategories))

	defaults := schema.DefaultCategoryCaps()
	for i, rule := range rules {
		assert.Equal(t, schema.AllCategories[i], rule.Category, "rules should follow display order")
		assert.NotEmpty(t, rule.Signals, "every rule should name its signals")
		assert.InDelta(t, defaults[rule.Category], rule.MaxScore, 1e-9, "max score should be the category default cap")
		assert.Equal(t, schema.IsIntentionalCategory(rule.Category), rule.Intentional)
		if rule.Intentional {
			assert.Empty(t, rule.Replacement, "intentional rules have no replacement")
		} else {
			assert.NotEmpty(t, rule.Replacement, "unintentional rules should describe their replacement")
		}
	}
}

func TestRulesReflectCustomCaps(t *testing.T) {
	caps := schema.DefaultCategoryCaps()
	caps[schema.ErrorHandlingCategory] = 0.99
	caps[schema.FunctionParamCategory] = 0.50

	rules := Rules(caps)
	require.Len(t, rules, len(schema.AllCategories))

	byCategory := make(map[schema.Category]schema.ClassificationRule, len(rules))
	for _, rule := range rules {
		byCategory[rule.Category] = rule
	}
	assert.InDelta(t, 0.99, byCategory[schema.ErrorHandlingCategory].MaxScore, 1e-9)
	assert.InDelta(t, 0.50, byCategory[schema.FunctionParamCategory].MaxScore, 1e-9)
	assert.InDelta(t, 0.85, byCategory[schema.RecordTypeCategory].MaxScore, 1e-9, "untouched categories keep their defaults")
}
