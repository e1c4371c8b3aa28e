package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// contextRadius bounds the surrounding-line window handed to the classifier.
const contextRadius = 2

// BuildContexts re-reads the candidate file and builds one classification
// context per occurrence. Reading at context-build time rather than reusing
// discovery-time text keeps the snippet honest when a file changed between
// discovery and batch execution: a stale occurrence then fails its exact-text
// match instead of classifying against outdated surroundings.
func BuildContexts(cfg *contract.Config, provider contract.DomainProvider, candidate schema.FileCandidate) ([]schema.ClassificationContext, error) {
	data, err := os.ReadFile(filepath.Join(cfg.ProjectPath, candidate.Path))
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")

	contexts := make([]schema.ClassificationContext, 0, len(candidate.Occurrences))
	for _, occ := range candidate.Occurrences {
		contexts = append(contexts, BuildContext(occ, lines, provider))
	}
	return contexts, nil
}

// BuildContext assembles the classifier's view of one occurrence: the line
// itself, a bounded window of neighbors, comment detection, file-type flags
// and the domain tag.
func BuildContext(occ schema.Occurrence, lines []string, provider contract.DomainProvider) schema.ClassificationContext {
	idx := occ.LineNumber - 1
	snippet := occ.Line
	if idx >= 0 && idx < len(lines) {
		snippet = lines[idx]
	}

	hints, suggested := provider.HintsFor(occ.FilePath)
	comment, hasComment := detectComment(lines, idx)

	return schema.ClassificationContext{
		FilePath:       occ.FilePath,
		LineNumber:     occ.LineNumber,
		Snippet:        snippet,
		Surrounding:    surroundingWindow(lines, idx),
		HasComment:     hasComment,
		CommentText:    comment,
		IsTestFile:     IsTestPath(occ.FilePath),
		IsTypeDefFile:  isTypeDefPath(occ.FilePath),
		IsConfigFile:   isConfigPath(occ.FilePath),
		Domain:         provider.DomainFor(occ.FilePath),
		DomainHints:    hints,
		SuggestedTypes: suggested,
	}
}

// surroundingWindow returns the neighboring lines within the context radius,
// in file order, excluding the occurrence line itself.
func surroundingWindow(lines []string, idx int) []string {
	if idx < 0 || idx >= len(lines) {
		return nil
	}
	var window []string
	for i := max(0, idx-contextRadius); i <= min(len(lines)-1, idx+contextRadius); i++ {
		if i == idx {
			continue
		}
		window = append(window, lines[i])
	}
	return window
}

// detectComment finds a comment attached to the occurrence: either trailing
// on the line itself or a contiguous comment block directly above it.
func detectComment(lines []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(lines) {
		return "", false
	}

	var parts []string

	// Comment block directly above, collected top-down.
	var above []string
	for i := idx - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if !isCommentLine(trimmed) {
			break
		}
		above = append([]string{stripCommentMarkers(trimmed)}, above...)
	}
	parts = append(parts, above...)

	// Trailing comment on the occurrence line.
	if pos := strings.Index(lines[idx], "//"); pos >= 0 {
		parts = append(parts, stripCommentMarkers(lines[idx][pos:]))
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	return text, text != ""
}

// isCommentLine reports whether a trimmed line belongs to a comment block.
func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasSuffix(trimmed, "*/")
}

// stripCommentMarkers removes comment punctuation so keyword matching sees
// only the comment's words.
func stripCommentMarkers(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimPrefix(strings.TrimSpace(s), "*")
	return strings.TrimSpace(s)
}

// IsTestPath reports whether the path follows test naming conventions.
func IsTestPath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, segment := range strings.Split(strings.ToLower(path), "/") {
		if segment == "__tests__" || segment == "tests" || segment == "__mocks__" {
			return true
		}
	}
	return false
}

// isTypeDefPath reports whether the path is a declaration file or lives
// under a types directory.
func isTypeDefPath(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".d.ts") {
		return true
	}
	base := filepath.Base(lower)
	if base == "types.ts" {
		return true
	}
	for _, segment := range strings.Split(lower, "/") {
		if segment == "types" {
			return true
		}
	}
	return false
}

// isConfigPath reports whether the path follows configuration conventions.
func isConfigPath(path string) bool {
	lower := strings.ToLower(path)
	base := filepath.Base(lower)
	if strings.Contains(base, ".config.") || base == "config.ts" {
		return true
	}
	for _, segment := range strings.Split(lower, "/") {
		if segment == "config" {
			return true
		}
	}
	return false
}
