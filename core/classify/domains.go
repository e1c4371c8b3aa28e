package classify

import (
	"fmt"

	"github.com/alchm-kitchen/typesweep/schema"
)

// Domain fallback confidences. Astrological code talks to an untyped
// ephemeris library, so preservation is near-certain when the discovery
// pass attached a boundary hint; campaign internals have concrete types on
// hand, so a specific suggestion is cheap but less certain.
const (
	astroHintedConfidence  = 0.90
	astroDefaultConfidence = 0.80
	servicePreserveConf    = 0.75
	intelligencePreserve   = 0.75
	recipeSuggestConf      = 0.70
	serviceSuggestConf     = 0.70
	campaignSuggestConf    = 0.65
)

// domainStrategy produces a verdict for one subject domain, or reports
// that the domain has nothing to say about this occurrence.
type domainStrategy func(ctx schema.ClassificationContext) (schema.Classification, bool)

// domainStrategies covers the five subject domains. Structural domains
// (component, utility, test, config, types) carry no intent signal of
// their own and fall through to the structural pass.
var domainStrategies = map[schema.Domain]domainStrategy{
	schema.AstrologicalDomain: classifyAstrological,
	schema.RecipeDomain:       classifyRecipe,
	schema.CampaignDomain:     classifyCampaign,
	schema.ServiceDomain:      classifyService,
	schema.IntelligenceDomain: classifyIntelligence,
}

// shapeCategory buckets a snippet by its syntactic shape for fallback
// verdicts. Bare variable annotations report as function_param: the fix
// shape is identical, replace the annotated type.
func shapeCategory(snippet string) schema.Category {
	switch {
	case arrayShapeRe.MatchString(snippet):
		return schema.ArrayTypeCategory
	case recordShapeRe.MatchString(snippet) || indexSigRe.MatchString(snippet):
		return schema.RecordTypeCategory
	case asAssertionRe.MatchString(snippet):
		return schema.TypeAssertionCategory
	case paramShapeRe.MatchString(snippet):
		return schema.FunctionParamCategory
	case returnShapeRe.MatchString(snippet):
		return schema.ReturnTypeCategory
	default:
		return schema.FunctionParamCategory
	}
}

// preserveVerdict builds an intentional fallback classification.
func preserveVerdict(confidence float64, reason string) schema.Classification {
	return schema.Classification{
		IsIntentional: true,
		Confidence:    confidence,
		Reasoning:     reason,
		Category:      schema.ExternalAPICategory,
	}
}

// suggestVerdict builds an unintentional fallback classification carrying
// the domain's preferred concrete type.
func suggestVerdict(confidence float64, ctx schema.ClassificationContext, reason string) schema.Classification {
	category := shapeCategory(ctx.Snippet)
	replacement := suggestReplacement(category, ctx)
	if len(ctx.SuggestedTypes) > 0 {
		replacement = ctx.SuggestedTypes[0]
		if category == schema.ArrayTypeCategory {
			replacement = ctx.SuggestedTypes[0] + "[]"
		}
	}
	return schema.Classification{
		Confidence:           confidence,
		Reasoning:            reason,
		Category:             category,
		SuggestedReplacement: replacement,
	}
}

func classifyAstrological(ctx schema.ClassificationContext) (schema.Classification, bool) {
	if len(ctx.DomainHints) > 0 {
		return preserveVerdict(astroHintedConfidence,
			fmt.Sprintf("astrological domain: %s", ctx.DomainHints[0])), true
	}
	return preserveVerdict(astroDefaultConfidence,
		"astrological domain: values cross an untyped ephemeris boundary"), true
}

func classifyRecipe(ctx schema.ClassificationContext) (schema.Classification, bool) {
	return suggestVerdict(recipeSuggestConf, ctx,
		"recipe domain: concrete ingredient types exist for this data"), true
}

func classifyCampaign(ctx schema.ClassificationContext) (schema.Classification, bool) {
	return suggestVerdict(campaignSuggestConf, ctx,
		"campaign domain: internal metrics carry concrete types"), true
}

func classifyService(ctx schema.ClassificationContext) (schema.Classification, bool) {
	// Assertions in service code usually cast a remote payload at the
	// boundary; annotations deeper in are replaceable with response types.
	if asAssertionRe.MatchString(ctx.Snippet) {
		return preserveVerdict(servicePreserveConf,
			"service domain: assertion at a remote API boundary"), true
	}
	return suggestVerdict(serviceSuggestConf, ctx,
		"service domain: response wrapper types exist for this data"), true
}

func classifyIntelligence(ctx schema.ClassificationContext) (schema.Classification, bool) {
	return preserveVerdict(intelligencePreserve,
		"intelligence domain: model output shape varies across revisions"), true
}
