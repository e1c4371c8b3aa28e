// Package scan discovers loose "any" annotations in a TypeScript source tree.
package scan

import "regexp"

// Pattern names recorded on discovered occurrences.
const (
	PatternRecord         = "record"
	PatternGenericArray   = "generic_array"
	PatternIndexSignature = "index_signature"
	PatternArray          = "array"
	PatternAssertion      = "assertion"
	PatternAnnotation     = "annotation"
)

// anyPattern pairs a pattern name with its compiled matcher.
type anyPattern struct {
	Name string
	Re   *regexp.Regexp
}

// patternRegistry lists the syntactic shapes of a loose "any", most specific
// first. MatchLine reports the first hit, so a `Record<string, any>` line tags
// as record rather than as a plain annotation.
var patternRegistry = []anyPattern{
	{PatternRecord, regexp.MustCompile(`\bRecord<\s*[^,<>]+,\s*any\s*>`)},
	{PatternGenericArray, regexp.MustCompile(`\bArray<\s*any\s*>`)},
	{PatternIndexSignature, regexp.MustCompile(`\[\s*\w+\s*:\s*(?:string|number|symbol)\s*\]\s*:\s*any\b`)},
	{PatternArray, regexp.MustCompile(`\bany\[\]`)},
	{PatternAssertion, regexp.MustCompile(`\bas\s+any\b`)},
	{PatternAnnotation, regexp.MustCompile(`:\s*any\b`)},
}

// MatchLine returns the name of the most specific pattern matching the line
// and whether any pattern matched at all.
func MatchLine(line string) (string, bool) {
	for _, p := range patternRegistry {
		if p.Re.MatchString(line) {
			return p.Name, true
		}
	}
	return "", false
}

// PatternNames returns the registry's pattern names in specificity order.
func PatternNames() []string {
	names := make([]string, 0, len(patternRegistry))
	for _, p := range patternRegistry {
		names = append(names, p.Name)
	}
	return names
}
