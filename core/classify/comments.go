package classify

import (
	"strings"

	"github.com/alchm-kitchen/typesweep/schema"
)

// documentedConfidence is the verdict confidence when an attached comment
// explicitly declares the annotation intentional. Documentation is the
// strongest evidence the classifier ever sees, but still short of proof.
const documentedConfidence = 0.95

// intentionalMarkers are comment phrases that declare an any deliberate.
// eslint-disable is only accepted when the comment carries no open work
// marker; a disabled rule next to a TODO reads as a postponed fix, not a
// decision.
var intentionalMarkers = []string{
	"intentionally any",
	"intentional any",
	"intentionally typed as any",
	"must be any",
	"needs to be any",
	"external library",
	"third-party",
	"third party",
	"untyped library",
	"no types available",
}

var workMarkers = []string{"todo", "fixme", "hack", "xxx"}

// commentCategoryKeywords maps comment vocabulary to the category the
// comment is evidence for. Checked in declaration order; first hit wins.
var commentCategoryKeywords = []struct {
	category schema.Category
	keywords []string
}{
	{schema.ErrorHandlingCategory, []string{"error", "exception", "catch", "throw"}},
	{schema.ExternalAPICategory, []string{"external", "third-party", "third party", "library", "api", "response", "sdk"}},
	{schema.TestMockCategory, []string{"mock", "test", "stub", "fixture"}},
	{schema.DynamicConfigCategory, []string{"config", "settings", "env", "dynamic"}},
	{schema.LegacyCompatCategory, []string{"legacy", "compat", "deprecated", "migration", "backward"}},
}

// documentsIntent reports whether the comment text explicitly declares the
// annotation deliberate.
func documentsIntent(comment string) bool {
	text := strings.ToLower(comment)
	for _, marker := range intentionalMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	if strings.Contains(text, "eslint-disable") && strings.Contains(text, "no-explicit-any") {
		for _, wm := range workMarkers {
			if strings.Contains(text, wm) {
				return false
			}
		}
		return true
	}
	return false
}

// categoryFromComment infers which intentional category the comment
// describes. Comments that declare intent without saying why fall into the
// legacy-compatibility bucket.
func categoryFromComment(comment string) schema.Category {
	text := strings.ToLower(comment)
	for _, entry := range commentCategoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.category
			}
		}
	}
	return schema.LegacyCompatCategory
}
