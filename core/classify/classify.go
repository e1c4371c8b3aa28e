package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// Decision thresholds for the classification ladder.
const (
	// winnerThreshold is the minimum adjusted pattern score that settles
	// the verdict without consulting the fallback passes.
	winnerThreshold = 0.70

	// Structural fallback confidences for untyped signatures.
	structuralParamConf  = 0.65
	structuralReturnConf = 0.60

	// Default-verdict shaping when nothing else matched.
	defaultBaseConf     = 0.50
	defaultCommentNudge = 0.15
	defaultTypeDefNudge = 0.10
	defaultConfigNudge  = 0.05
	defaultTestNudge    = 0.15
	defaultUnknownNudge = 0.10
	defaultFloor        = 0.20
	defaultCeil         = 0.90
	intentionalCutoff   = 0.60

	// fallbackConfidence marks verdicts synthesized after a per-item
	// failure. Low on purpose: downstream actionability filters must
	// never act on them.
	fallbackConfidence = 0.10
)

// ClassificationError reports that one occurrence could not be classified.
type ClassificationError struct {
	FilePath   string
	LineNumber int
	Err        error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify %s:%d: %v", e.FilePath, e.LineNumber, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Engine classifies any occurrences. It is immutable after construction and
// safe for concurrent use; all per-occurrence inputs arrive through the
// classification context.
type Engine struct {
	winnerThreshold float64
	caps            map[schema.Category]float64
}

// NewEngine creates a classification engine. A nil caps map selects the
// default per-category confidence ceilings.
func NewEngine(caps map[schema.Category]float64) *Engine {
	if caps == nil {
		caps = schema.DefaultCategoryCaps()
	}
	return &Engine{winnerThreshold: winnerThreshold, caps: caps}
}

// Classify runs the decision ladder for a single occurrence. The verdict
// is deterministic: the same context always yields the same classification.
func (e *Engine) Classify(cctx schema.ClassificationContext) (schema.Classification, error) {
	if err := validateContext(cctx); err != nil {
		return schema.Classification{}, &ClassificationError{
			FilePath:   cctx.FilePath,
			LineNumber: cctx.LineNumber,
			Err:        err,
		}
	}

	// --- 1. Explicit documentation settles intent outright ---
	if cctx.HasComment && documentsIntent(cctx.CommentText) {
		return schema.Classification{
			IsIntentional: true,
			Confidence:    documentedConfidence,
			Reasoning:     "documented intent: " + compactComment(cctx.CommentText),
			Category:      categoryFromComment(cctx.CommentText),
		}, nil
	}

	// --- 2. Pattern scoring across all categories ---
	raw := make(map[schema.Category]float64, len(scorerRegistry))
	for category, score := range scorerRegistry {
		raw[category] = score(cctx, e.caps[category])
	}

	// --- 3. Contextual adjustment ---
	scores := adjustScores(raw, cctx)

	// --- 4. Winning category, if any score clears the threshold ---
	if category, score, ok := pickWinner(scores, e.winnerThreshold); ok {
		verdict := schema.Classification{
			IsIntentional: schema.IsIntentionalCategory(category),
			Confidence:    score,
			Reasoning:     fmt.Sprintf("%s pattern matched with score %.2f", schema.TitleForCategory(category), score),
			Category:      category,
		}
		if !verdict.IsIntentional {
			verdict.SuggestedReplacement = suggestReplacement(category, cctx)
		}
		return finalize(verdict, cctx), nil
	}

	// --- 5. Domain strategy for the five subject domains ---
	if strategy, ok := domainStrategies[cctx.Domain]; ok {
		if verdict, decided := strategy(cctx); decided {
			return finalize(verdict, cctx), nil
		}
	}

	// --- 6. Structural signature fallback ---
	if verdict, decided := structuralVerdict(cctx); decided {
		return finalize(verdict, cctx), nil
	}

	// --- 7. Default verdict ---
	return finalize(defaultVerdict(cctx), cctx), nil
}

// ClassifyBatch classifies a slice of contexts sequentially. A failing item
// degrades to a conservative preserved verdict and the batch continues; the
// only returned error is caller cancellation.
func (e *Engine) ClassifyBatch(ctx context.Context, contexts []schema.ClassificationContext) ([]schema.Classification, error) {
	results := make([]schema.Classification, 0, len(contexts))
	for _, cctx := range contexts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		verdict, err := e.Classify(cctx)
		if err != nil {
			contract.LogWarn("Classification degraded to conservative fallback", err)
			verdict = conservativeFallback(err)
		}
		results = append(results, verdict)
	}
	return results, nil
}

// validateContext rejects malformed contexts before scoring sees them.
func validateContext(cctx schema.ClassificationContext) error {
	if cctx.FilePath == "" {
		return fmt.Errorf("missing file path")
	}
	if cctx.LineNumber <= 0 {
		return fmt.Errorf("invalid line number %d", cctx.LineNumber)
	}
	if strings.TrimSpace(cctx.Snippet) == "" {
		return fmt.Errorf("empty snippet")
	}
	return nil
}

// pickWinner selects the highest-scoring category at or above the
// threshold. Iteration follows display order so ties resolve the same way
// every run.
func pickWinner(scores map[schema.Category]float64, threshold float64) (schema.Category, float64, bool) {
	var (
		winner schema.Category
		best   float64
		found  bool
	)
	for _, category := range schema.AllCategories {
		score := scores[category]
		if score >= threshold && score > best {
			winner = category
			best = score
			found = true
		}
	}
	return winner, best, found
}

// structuralVerdict catches untyped signatures that scored below the
// winner threshold, usually after file-type damping.
func structuralVerdict(cctx schema.ClassificationContext) (schema.Classification, bool) {
	switch {
	case paramShapeRe.MatchString(cctx.Snippet):
		return schema.Classification{
			Confidence:           structuralParamConf,
			Reasoning:            "untyped function parameter",
			Category:             schema.FunctionParamCategory,
			SuggestedReplacement: suggestReplacement(schema.FunctionParamCategory, cctx),
		}, true
	case returnShapeRe.MatchString(cctx.Snippet):
		return schema.Classification{
			Confidence:           structuralReturnConf,
			Reasoning:            "untyped function return",
			Category:             schema.ReturnTypeCategory,
			SuggestedReplacement: suggestReplacement(schema.ReturnTypeCategory, cctx),
		}, true
	}
	return schema.Classification{}, false
}

// defaultVerdict shapes a low-commitment classification from file-type and
// domain signals alone. It never carries a replacement: a verdict this
// weak must not drive a rewrite.
func defaultVerdict(cctx schema.ClassificationContext) schema.Classification {
	conf := defaultBaseConf
	if cctx.HasComment {
		conf += defaultCommentNudge
	}
	if cctx.IsTypeDefFile {
		conf += defaultTypeDefNudge
	}
	if cctx.IsConfigFile {
		conf += defaultConfigNudge
	}
	if cctx.IsTestFile {
		conf -= defaultTestNudge
	}
	if cctx.Domain == schema.UnknownDomain {
		conf -= defaultUnknownNudge
	}
	conf = min(max(conf, defaultFloor), defaultCeil)

	intentional := conf > intentionalCutoff
	category := schema.FunctionParamCategory
	if intentional {
		category = schema.LegacyCompatCategory
	}
	return schema.Classification{
		IsIntentional: intentional,
		Confidence:    conf,
		Reasoning:     fmt.Sprintf("no strong signal; defaulted from %s context", cctx.Domain),
		Category:      category,
	}
}

// conservativeFallback preserves an occurrence the classifier could not
// judge. Better to leave a loose any in place than rewrite on a failure.
func conservativeFallback(err error) schema.Classification {
	return schema.Classification{
		IsIntentional: true,
		Confidence:    fallbackConfidence,
		Reasoning:     fmt.Sprintf("classification failed (%v); preserved conservatively", err),
		Category:      schema.LegacyCompatCategory,
	}
}

// finalize applies the invariants every verdict must satisfy regardless of
// which ladder step produced it.
func finalize(verdict schema.Classification, cctx schema.ClassificationContext) schema.Classification {
	verdict.Confidence = schema.Clamp01(verdict.Confidence)
	if verdict.IsIntentional {
		verdict.SuggestedReplacement = ""
		verdict.RequiresDocumentation = !cctx.HasComment
	}
	return verdict
}

// compactComment trims a comment for inclusion in reasoning text.
func compactComment(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	const maxLen = 80
	if len(text) > maxLen {
		return text[:maxLen-3] + "..."
	}
	return text
}
