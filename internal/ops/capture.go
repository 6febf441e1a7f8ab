package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/db"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	Title      string  // required
	Content    string  // required
	ProjectTag *string // optional categorization hint
	AreaTag    *string // optional categorization hint
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	Thought *para.Thought `json:"thought"`
}

// Capture stores a raw thought in status NEW for later processing.
func Capture(ctx context.Context, database *sql.DB, cfg *config.Config, input CaptureInput) (*CaptureOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.NewInvalidRequest("content is required")
	}

	t, err := para.NewThought(input.Title, input.Content,
		cleanOptionalString(input.ProjectTag), cleanOptionalString(input.AreaTag))
	if err != nil {
		return nil, err
	}

	if err := db.InsertThought(database, t); err != nil {
		return nil, err
	}

	return &CaptureOutput{Thought: t}, nil
}
