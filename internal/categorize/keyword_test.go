package categorize

import (
	"context"
	"strings"
	"testing"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

func TestKeywordCategorizer_HintWins(t *testing.T) {
	k := NewKeywordCategorizer()

	result, err := k.Categorize(context.Background(), Input{
		Content: "random text with a deadline in it", // keywords present but hint outranks
		Hints:   []Hint{{Category: para.CategoryArea, Tag: "Health"}},
	})
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	if result.Category != para.CategoryArea {
		t.Errorf("Category = %v, want area", result.Category)
	}
	if result.Confidence < 0.8 {
		t.Errorf("Confidence = %v, want >= 0.8 for hinted input", result.Confidence)
	}
	if result.RequiresReview {
		t.Error("hinted result should not require review")
	}
	if len(result.SuggestedTags) != 1 || result.SuggestedTags[0] != "health" {
		t.Errorf("SuggestedTags = %v, want [health]", result.SuggestedTags)
	}
	if result.Reasoning == "" {
		t.Error("Reasoning must not be empty")
	}
}

func TestKeywordCategorizer_FirstHintDecides(t *testing.T) {
	k := NewKeywordCategorizer()

	result, err := k.Categorize(context.Background(), Input{
		Content: "c",
		Hints: []Hint{
			{Category: para.CategoryProject, Tag: "alpha"},
			{Category: para.CategoryArea, Tag: "health"},
		},
	})
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if result.Category != para.CategoryProject {
		t.Errorf("Category = %v, want project (first hint)", result.Category)
	}
}

func TestKeywordCategorizer_KeywordTier(t *testing.T) {
	k := NewKeywordCategorizer()

	tests := []struct {
		content string
		want    para.Category
	}{
		{"finish the report, deadline is Friday", para.CategoryProject},
		{"keep the garden as an ongoing responsibility", para.CategoryArea},
		{"great tutorial on goroutines to read later", para.CategoryResource},
	}

	for _, tt := range tests {
		result, err := k.Categorize(context.Background(), Input{Content: tt.content})
		if err != nil {
			t.Fatalf("Categorize(%q) failed: %v", tt.content, err)
		}
		if result.Category != tt.want {
			t.Errorf("Categorize(%q).Category = %v, want %v", tt.content, result.Category, tt.want)
		}
		if result.Confidence < 0.5 || result.Confidence >= 0.8 {
			t.Errorf("Categorize(%q).Confidence = %v, want [0.5, 0.8)", tt.content, result.Confidence)
		}
		if result.RequiresReview {
			t.Errorf("Categorize(%q) should not require review", tt.content)
		}
	}
}

func TestKeywordCategorizer_WholeWordMatching(t *testing.T) {
	k := NewKeywordCategorizer()

	t.Run("embedded keyword does not fire", func(t *testing.T) {
		// "goroutines" contains "routine" but is not area-indicative.
		result, err := k.Categorize(context.Background(), Input{
			Content: "debugging goroutines in the scheduler",
		})
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if result.Category != para.CategoryResource {
			t.Errorf("Category = %v, want resource fallback", result.Category)
		}
		if !result.RequiresReview {
			t.Error("no whole-word indicator hits, result should require review")
		}
		if strings.Contains(result.Reasoning, "ambiguous") {
			t.Errorf("Reasoning = %q, want no-indicator fallback, not ambiguity", result.Reasoning)
		}
	})

	t.Run("embedded keyword does not make real indicators ambiguous", func(t *testing.T) {
		result, err := k.Categorize(context.Background(), Input{
			Content: "great tutorial on goroutines to read later",
		})
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if result.Category != para.CategoryResource {
			t.Errorf("Category = %v, want resource", result.Category)
		}
		if result.Confidence < 0.5 || result.Confidence >= 0.8 {
			t.Errorf("Confidence = %v, want keyword tier [0.5, 0.8)", result.Confidence)
		}
		if result.RequiresReview {
			t.Error("unambiguous keyword match should not require review")
		}
	})

	t.Run("keyword next to punctuation still fires", func(t *testing.T) {
		result, err := k.Categorize(context.Background(), Input{
			Content: "finish the report (deadline: Friday)",
		})
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if result.Category != para.CategoryProject {
			t.Errorf("Category = %v, want project", result.Category)
		}
	})
}

func TestKeywordCategorizer_AmbiguousFallsBack(t *testing.T) {
	k := NewKeywordCategorizer()

	// Both project ("deadline") and area ("ongoing") indicators hit.
	result, err := k.Categorize(context.Background(), Input{
		Content: "the deadline for this ongoing effort",
	})
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if result.Category != para.CategoryResource {
		t.Errorf("Category = %v, want resource fallback", result.Category)
	}
	if result.Confidence >= 0.5 {
		t.Errorf("Confidence = %v, want < 0.5 for ambiguous input", result.Confidence)
	}
	if !result.RequiresReview {
		t.Error("ambiguous result should require review")
	}
	if !strings.Contains(result.Reasoning, "ambiguous") {
		t.Errorf("Reasoning = %q, want mention of ambiguity", result.Reasoning)
	}
}

func TestKeywordCategorizer_DefaultFallback(t *testing.T) {
	k := NewKeywordCategorizer()

	result, err := k.Categorize(context.Background(), Input{
		Content: "some plain text about nothing in particular",
	})
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if result.Category != para.CategoryResource {
		t.Errorf("Category = %v, want resource", result.Category)
	}
	if result.Confidence >= 0.5 {
		t.Errorf("Confidence = %v, want < 0.5", result.Confidence)
	}
	if !result.RequiresReview {
		t.Error("fallback result should require review")
	}
}

func TestKeywordCategorizer_ConfidenceOrdering(t *testing.T) {
	k := NewKeywordCategorizer()
	ctx := context.Background()
	content := "finish the report, deadline is Friday"

	hinted, _ := k.Categorize(ctx, Input{
		Content: content,
		Hints:   []Hint{{Category: para.CategoryProject}},
	})
	keyword, _ := k.Categorize(ctx, Input{Content: content})
	fallback, _ := k.Categorize(ctx, Input{Content: "plain text"})

	if hinted.Confidence < keyword.Confidence {
		t.Errorf("hinted (%v) should be >= keyword (%v)", hinted.Confidence, keyword.Confidence)
	}
	if keyword.Confidence < fallback.Confidence {
		t.Errorf("keyword (%v) should be >= fallback (%v)", keyword.Confidence, fallback.Confidence)
	}
}

func TestWithConfidences_BandsEnforced(t *testing.T) {
	ctx := context.Background()

	t.Run("out-of-band values keep defaults", func(t *testing.T) {
		// A keyword score above 0.8 would make keyword matches look hinted.
		k := NewKeywordCategorizer(WithConfidences(0.2, 0.95, 0.7))

		hinted, err := k.Categorize(ctx, Input{
			Content: "c",
			Hints:   []Hint{{Category: para.CategoryProject}},
		})
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if hinted.Confidence != DefaultHintConfidence {
			t.Errorf("hint Confidence = %v, want default %v", hinted.Confidence, DefaultHintConfidence)
		}

		keyword, err := k.Categorize(ctx, Input{Content: "finish by the deadline"})
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if keyword.Confidence != DefaultKeywordConfidence {
			t.Errorf("keyword Confidence = %v, want default %v", keyword.Confidence, DefaultKeywordConfidence)
		}

		fallback, err := k.Categorize(ctx, Input{Content: "plain text"})
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if fallback.Confidence != DefaultFallbackConfidence {
			t.Errorf("fallback Confidence = %v, want default %v", fallback.Confidence, DefaultFallbackConfidence)
		}
	})

	t.Run("in-band values applied", func(t *testing.T) {
		k := NewKeywordCategorizer(WithConfidences(0.85, 0.6, 0.25))

		keyword, err := k.Categorize(ctx, Input{Content: "finish by the deadline"})
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if keyword.Confidence != 0.6 {
			t.Errorf("keyword Confidence = %v, want 0.6", keyword.Confidence)
		}
	})
}

func TestKeywordCategorizer_EmptyContent(t *testing.T) {
	k := NewKeywordCategorizer()

	_, err := k.Categorize(context.Background(), Input{Content: "   "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestKeywordCategorizer_Deterministic(t *testing.T) {
	k := NewKeywordCategorizer()
	in := Input{Title: "t", Content: "tutorial on indexing"}

	first, err := k.Categorize(context.Background(), in)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := k.Categorize(context.Background(), in)
		if err != nil {
			t.Fatalf("Categorize failed: %v", err)
		}
		if again.Category != first.Category || again.Confidence != first.Confidence ||
			again.Reasoning != first.Reasoning || again.RequiresReview != first.RequiresReview {
			t.Fatalf("non-deterministic result: %+v vs %+v", again, first)
		}
	}
}

func TestBatch_IsolatesFailures(t *testing.T) {
	k := NewKeywordCategorizer()

	inputs := []Input{
		{Content: "finish by the deadline"},
		{Content: ""}, // invalid: must fail without aborting the batch
		{Content: "a tutorial to read later"},
	}

	outcomes := Batch(context.Background(), k, inputs)
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if outcomes[0].Err != nil {
		t.Errorf("outcome[0] unexpected error: %v", outcomes[0].Err)
	}
	if outcomes[1].Err == nil {
		t.Error("outcome[1] should carry the invalid-content error")
	}
	if outcomes[2].Err != nil {
		t.Errorf("outcome[2] unexpected error: %v", outcomes[2].Err)
	}
	if outcomes[2].Result.Category != para.CategoryResource {
		t.Errorf("outcome[2].Category = %v, want resource", outcomes[2].Result.Category)
	}
}

func TestHintsFromTags(t *testing.T) {
	proj := "alpha"
	area := "health"

	hints := HintsFromTags(&proj, &area)
	if len(hints) != 2 {
		t.Fatalf("got %d hints, want 2", len(hints))
	}
	if hints[0].Category != para.CategoryProject {
		t.Errorf("hints[0] = %v, want project first", hints[0].Category)
	}

	if got := HintsFromTags(nil, nil); got != nil {
		t.Errorf("HintsFromTags(nil, nil) = %v, want nil", got)
	}

	empty := ""
	if got := HintsFromTags(&empty, nil); got != nil {
		t.Errorf("empty tag should produce no hints, got %v", got)
	}
}
