package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dkoenawan/paraflow/internal/categorize"
	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// CategorizeInput contains parameters for the Categorize operation.
type CategorizeInput struct {
	Title      string  // required
	Content    string  // required
	ProjectTag *string // optional hint
	AreaTag    *string // optional hint
}

// CategorizeOutput contains a categorization preview.
type CategorizeOutput struct {
	Result          para.CategorizationResult `json:"result"`
	ConfidenceLevel string                    `json:"confidence_level"`
}

// Categorize previews how content would be categorized without capturing a
// thought or persisting anything.
func Categorize(ctx context.Context, database *sql.DB, cfg *config.Config, input CategorizeInput) (*CategorizeOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.NewInvalidRequest("content is required")
	}

	categorizer := categorize.NewKeywordCategorizer(
		categorize.WithConfidences(cfg.HintConfidence, cfg.KeywordConfidence, cfg.FallbackConfidence),
	)

	result, err := categorizer.Categorize(ctx, categorize.Input{
		Title:   input.Title,
		Content: input.Content,
		Hints: categorize.HintsFromTags(
			cleanOptionalString(input.ProjectTag), cleanOptionalString(input.AreaTag)),
	})
	if err != nil {
		return nil, err
	}

	return &CategorizeOutput{
		Result:          result,
		ConfidenceLevel: result.ConfidenceLevel(),
	}, nil
}
