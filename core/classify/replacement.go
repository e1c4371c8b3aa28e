package classify

import (
	"regexp"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/scan"
	"github.com/alchm-kitchen/typesweep/schema"
)

var recordKeyRe = regexp.MustCompile(`\bRecord<\s*([^,<>]+?)\s*,\s*any\s*>`)

// Splice targets for each occurrence pattern. Each regex isolates the exact
// span that the suggested type should overwrite; surrounding punctuation and
// whitespace survive untouched so the edit stays minimal.
var (
	genericArrayRe  = regexp.MustCompile(`\bArray<\s*any\s*>`)
	indexSigValueRe = regexp.MustCompile(`\]\s*:\s*(any)\b`)
	arrayLiteralRe  = regexp.MustCompile(`\bany\[\]`)
	asAnyRe         = regexp.MustCompile(`\bas\s+(any)\b`)
	annotationAnyRe = regexp.MustCompile(`:\s*(any)\b`)
)

// suggestReplacement derives the replacement type for an unintentional
// verdict. Intentional categories never get one: their occurrences are
// preserved, not rewritten.
//
// unknown is the safe default because it forces a narrowing check at every
// use site instead of silently disabling them the way any does. Domain type
// hints, when the discovery pass collected them, beat the generic fallback
// for value positions.
func suggestReplacement(category schema.Category, ctx schema.ClassificationContext) string {
	switch category {
	case schema.ArrayTypeCategory:
		return "unknown[]"
	case schema.RecordTypeCategory:
		if m := recordKeyRe.FindStringSubmatch(ctx.Snippet); m != nil {
			return "Record<" + m[1] + ", unknown>"
		}
		// Index signatures keep their declared key; only the value changes.
		return "unknown"
	case schema.FunctionParamCategory, schema.ReturnTypeCategory:
		if len(ctx.SuggestedTypes) > 0 {
			return ctx.SuggestedTypes[0]
		}
		return "unknown"
	case schema.TypeAssertionCategory:
		return "unknown"
	default:
		return ""
	}
}

// BuildReplacement turns an unintentional verdict into a pending substitution
// against the occurrence line. It reports false when the verdict carries no
// suggestion, when the line no longer contains the expected pattern, or when
// the rendered line would be identical to the original.
//
// ValidationRequired is left false; the caller decides whether the write gets
// its own compiler check or rides a consolidated batch check.
func BuildReplacement(occ schema.Occurrence, verdict schema.Classification) (schema.Replacement, bool) {
	if verdict.IsIntentional || verdict.SuggestedReplacement == "" {
		return schema.Replacement{}, false
	}

	updated, ok := renderUpdatedLine(occ.Line, occ.Pattern, verdict.SuggestedReplacement)
	if !ok || updated == occ.Line {
		return schema.Replacement{}, false
	}

	return schema.Replacement{
		FilePath:   occ.FilePath,
		LineNumber: occ.LineNumber,
		Original:   occ.Line,
		Updated:    updated,
		Confidence: verdict.Confidence,
	}, true
}

// renderUpdatedLine splices the suggestion into the first pattern match on the
// line. Only the first match changes: discovery records one occurrence per
// line, so a second "any" on the same line is someone else's occurrence.
func renderUpdatedLine(line, pattern, suggestion string) (string, bool) {
	switch pattern {
	case scan.PatternRecord:
		// The suggestion already carries the full Record<K, unknown> form.
		return spliceMatch(line, recordKeyRe, suggestion)
	case scan.PatternGenericArray:
		return spliceMatch(line, genericArrayRe, "Array<unknown>")
	case scan.PatternIndexSignature:
		return spliceGroup(line, indexSigValueRe, suggestion)
	case scan.PatternArray:
		return spliceMatch(line, arrayLiteralRe, suggestion)
	case scan.PatternAssertion:
		return spliceGroup(line, asAnyRe, suggestion)
	case scan.PatternAnnotation:
		return spliceGroup(line, annotationAnyRe, suggestion)
	default:
		return "", false
	}
}

// spliceMatch overwrites the whole first match of re with text.
func spliceMatch(line string, re *regexp.Regexp, text string) (string, bool) {
	loc := re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	var b strings.Builder
	b.WriteString(line[:loc[0]])
	b.WriteString(text)
	b.WriteString(line[loc[1]:])
	return b.String(), true
}

// spliceGroup overwrites only capture group 1 of the first match, keeping the
// surrounding matched text in place.
func spliceGroup(line string, re *regexp.Regexp, text string) (string, bool) {
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil || loc[2] < 0 {
		return "", false
	}
	var b strings.Builder
	b.WriteString(line[:loc[2]])
	b.WriteString(text)
	b.WriteString(line[loc[3]:])
	return b.String(), true
}
