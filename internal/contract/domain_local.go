package contract

import (
	"path/filepath"
	"strings"

	"github.com/alchm-kitchen/typesweep/schema"
)

// Keyword tables for path-based domain tagging. Order of evaluation lives in
// DomainFor; tables only hold the vocabulary.
var domainKeywords = map[schema.Domain][]string{
	schema.AstrologicalDomain: {"astro", "planet", "zodiac", "celestial", "horoscope", "lunar", "alchemical"},
	schema.RecipeDomain:       {"recipe", "ingredient", "cuisine", "nutrition", "cooking", "food"},
	schema.CampaignDomain:     {"campaign", "sweep", "batch", "migration"},
	schema.IntelligenceDomain: {"intelligence", "recommend", "predict", "scoring", "insight"},
	schema.ServiceDomain:      {"service", "client", "adapter", "api"},
}

// Structural directory tags checked after the keyword tables.
var structuralDirs = map[string]schema.Domain{
	"components": schema.ComponentDomain,
	"pages":      schema.ComponentDomain,
	"hooks":      schema.ComponentDomain,
	"contexts":   schema.ComponentDomain,
	"utils":      schema.UtilityDomain,
	"helpers":    schema.UtilityDomain,
	"lib":        schema.UtilityDomain,
	"constants":  schema.UtilityDomain,
	"services":   schema.ServiceDomain,
	"types":      schema.TypesDomain,
	"config":     schema.ConfigDomain,
}

// Per-domain intentionality hints handed to the classifier.
var domainHints = map[schema.Domain][]string{
	schema.AstrologicalDomain: {"ephemeris payloads cross an untyped astronomy library boundary"},
	schema.ServiceDomain:      {"response shapes depend on the remote API contract"},
	schema.IntelligenceDomain: {"model output shape varies across prompt revisions"},
}

// Per-domain suggested concrete types handed to the classifier.
var domainSuggestedTypes = map[schema.Domain][]string{
	schema.AstrologicalDomain: {"PlanetaryPosition", "ElementalProperties"},
	schema.RecipeDomain:       {"Recipe", "Ingredient"},
	schema.ServiceDomain:      {"ServiceResponse"},
	schema.IntelligenceDomain: {"PredictionResult"},
	schema.CampaignDomain:     {"BatchMetrics"},
}

// PathDomainProvider implements the DomainProvider interface using path
// conventions alone. It never reads file contents.
type PathDomainProvider struct{}

var _ DomainProvider = &PathDomainProvider{} // Compile-time check

// NewPathDomainProvider creates a new path-convention domain provider.
func NewPathDomainProvider() *PathDomainProvider {
	return &PathDomainProvider{}
}

// DomainFor implements the DomainProvider interface. Test, type-definition
// and config conventions outrank subject-matter keywords so a recipe test
// file still tags as test.
func (p *PathDomainProvider) DomainFor(path string) schema.Domain {
	normalized := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	base := filepath.Base(normalized)

	switch {
	case strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") ||
		strings.Contains(normalized, "__tests__/") || strings.Contains(normalized, "/tests/"):
		return schema.TestDomain
	case strings.HasSuffix(base, ".d.ts") || strings.Contains(normalized, "/types/") || base == "types.ts":
		return schema.TypesDomain
	case strings.Contains(base, ".config.") || strings.Contains(normalized, "/config/"):
		return schema.ConfigDomain
	}

	for _, domain := range []schema.Domain{
		schema.AstrologicalDomain,
		schema.RecipeDomain,
		schema.CampaignDomain,
		schema.IntelligenceDomain,
	} {
		for _, kw := range domainKeywords[domain] {
			if strings.Contains(normalized, kw) {
				return domain
			}
		}
	}

	for _, segment := range strings.Split(normalized, "/") {
		if domain, ok := structuralDirs[segment]; ok {
			return domain
		}
	}

	// Service keywords last among subject tags: "client" and "api" show up in
	// too many unrelated paths to outrank the structural checks.
	for _, kw := range domainKeywords[schema.ServiceDomain] {
		if strings.Contains(base, kw) {
			return schema.ServiceDomain
		}
	}

	return schema.UnknownDomain
}

// HintsFor implements the DomainProvider interface.
func (p *PathDomainProvider) HintsFor(path string) ([]string, []string) {
	domain := p.DomainFor(path)
	return domainHints[domain], domainSuggestedTypes[domain]
}
