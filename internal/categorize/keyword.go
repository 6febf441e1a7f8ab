package categorize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// nonWordRegex matches runs of characters outside [a-z0-9] in normalized text.
var nonWordRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Default confidence scores for the three decision tiers. Hinted assignments
// are confident (>= 0.8), single-indicator keyword matches are medium
// ([0.5, 0.8)), and the fallback is uncertain (< 0.5).
const (
	DefaultHintConfidence     = 0.9
	DefaultKeywordConfidence  = 0.65
	DefaultFallbackConfidence = 0.3
)

// indicator keyword sets per active category. A thought matches a category
// when any keyword appears in its combined title + content text.
var (
	projectKeywords = []string{
		"deadline", "due", "complete by", "finish", "deliver",
		"milestone", "ship", "launch", "outcome",
	}
	areaKeywords = []string{
		"maintain", "ongoing", "responsibility", "routine",
		"habit", "daily", "weekly", "recurring",
	}
	resourceKeywords = []string{
		"reference", "article", "tutorial", "guide",
		"read later", "learn about", "interesting", "topic",
	}
)

// KeywordCategorizer is the placeholder heuristic implementation: caller
// hints first, then keyword indicator sets, then an uncertain RESOURCE
// fallback. Stateless and safe for concurrent use.
type KeywordCategorizer struct {
	hintConfidence     float64
	keywordConfidence  float64
	fallbackConfidence float64
}

// Option configures a KeywordCategorizer.
type Option func(*KeywordCategorizer)

// WithConfidences overrides the three tier scores. A value outside its tier's
// band (hint [0.8, 1.0], keyword [0.5, 0.8), fallback (0, 0.5)) keeps that
// tier's default, so the hint >= keyword > fallback ordering always holds.
func WithConfidences(hint, keyword, fallback float64) Option {
	return func(k *KeywordCategorizer) {
		if hint >= 0.8 && hint <= 1.0 {
			k.hintConfidence = hint
		}
		if keyword >= 0.5 && keyword < 0.8 {
			k.keywordConfidence = keyword
		}
		if fallback > 0 && fallback < 0.5 {
			k.fallbackConfidence = fallback
		}
	}
}

// NewKeywordCategorizer creates the keyword heuristic categorizer.
func NewKeywordCategorizer(opts ...Option) *KeywordCategorizer {
	k := &KeywordCategorizer{
		hintConfidence:     DefaultHintConfidence,
		keywordConfidence:  DefaultKeywordConfidence,
		fallbackConfidence: DefaultFallbackConfidence,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Categorize assigns a category per the tiered policy. Pure function of its
// inputs: no side effects, no stored state.
func (k *KeywordCategorizer) Categorize(_ context.Context, in Input) (para.CategorizationResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		return para.CategorizationResult{}, errors.NewInvalidRequest("content must not be empty")
	}

	// Tier 1: the first unambiguous caller hint decides.
	for _, hint := range in.Hints {
		if !hint.Category.IsActive() {
			continue // archive is not a capture target
		}
		var tags []string
		if t := para.NormalizeTag(hint.Tag); t != "" {
			tags = []string{t}
		}
		return para.CategorizationResult{
			Category:      hint.Category,
			Confidence:    k.hintConfidence,
			Reasoning:     fmt.Sprintf("caller hinted %s%s", hint.Category, hintTagSuffix(hint.Tag)),
			SuggestedTags: tags,
		}, nil
	}

	// Tier 2: keyword indicator sets; only an unambiguous single match counts.
	text := para.Normalize(in.Title + " " + in.Content)
	matched := matchedCategories(text)
	if len(matched) == 1 {
		m := matched[0]
		return para.CategorizationResult{
			Category:   m.category,
			Confidence: k.keywordConfidence,
			Reasoning:  fmt.Sprintf("content contains %s-indicative language (%q)", m.category, m.keyword),
		}, nil
	}

	// Tier 3: uncertain fallback.
	reason := "no category indicators found; defaulted to resource"
	if len(matched) > 1 {
		reason = fmt.Sprintf("ambiguous indicators (%s); defaulted to resource", joinCategories(matched))
	}
	return para.CategorizationResult{
		Category:       para.CategoryResource,
		Confidence:     k.fallbackConfidence,
		Reasoning:      reason,
		RequiresReview: true,
	}, nil
}

type match struct {
	category para.Category
	keyword  string
}

// matchedCategories returns every category whose indicator set hits the text,
// in project/area/resource order, with the first matching keyword. Keywords
// match whole words only, so "routine" does not fire inside "goroutines";
// multi-word keywords match as adjacent words.
func matchedCategories(text string) []match {
	words := " " + nonWordRegex.ReplaceAllString(text, " ") + " "

	sets := []struct {
		category para.Category
		keywords []string
	}{
		{para.CategoryProject, projectKeywords},
		{para.CategoryArea, areaKeywords},
		{para.CategoryResource, resourceKeywords},
	}

	var matches []match
	for _, set := range sets {
		for _, kw := range set.keywords {
			if strings.Contains(words, " "+kw+" ") {
				matches = append(matches, match{set.category, kw})
				break
			}
		}
	}
	return matches
}

func hintTagSuffix(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", tag)
}

func joinCategories(matches []match) string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.category.String()
	}
	return strings.Join(names, ", ")
}
