// Package categorize assigns PARA categories to captured content.
//
// The Categorizer interface is the seam for swapping the keyword heuristic
// for a model-backed classifier later without touching the processing
// pipeline.
package categorize

import (
	"context"

	"github.com/dkoenawan/paraflow/internal/para"
)

// Hint is a caller-supplied categorization hint: a category the user already
// picked, optionally carrying the tag text that names it.
type Hint struct {
	Category para.Category `json:"category"`
	Tag      string        `json:"tag,omitempty"`
}

// Input carries the content to categorize plus any caller hints.
type Input struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Hints   []Hint `json:"hints,omitempty"`
}

// Categorizer assigns a PARA category to content with a confidence score and
// rationale. Implementations must be pure functions of their inputs.
type Categorizer interface {
	Categorize(ctx context.Context, in Input) (para.CategorizationResult, error)
}

// Outcome pairs one batch item's result with its error, index-aligned with
// the inputs.
type Outcome struct {
	Result para.CategorizationResult
	Err    error
}

// Batch categorizes each input independently. One item's failure never aborts
// the batch: the failing item gets an error outcome and the rest proceed.
func Batch(ctx context.Context, c Categorizer, inputs []Input) []Outcome {
	outcomes := make([]Outcome, len(inputs))
	for i, in := range inputs {
		result, err := c.Categorize(ctx, in)
		outcomes[i] = Outcome{Result: result, Err: err}
	}
	return outcomes
}

// HintsFromTags builds hints from a thought's optional project/area tags,
// project first. A tagged project outranks a tagged area, matching the
// original capture semantics.
func HintsFromTags(projectTag, areaTag *string) []Hint {
	var hints []Hint
	if projectTag != nil && *projectTag != "" {
		hints = append(hints, Hint{Category: para.CategoryProject, Tag: *projectTag})
	}
	if areaTag != nil && *areaTag != "" {
		hints = append(hints, Hint{Category: para.CategoryArea, Tag: *areaTag})
	}
	return hints
}
