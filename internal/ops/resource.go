package ops

import (
	"context"
	"database/sql"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/db"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// GetResourceInput contains parameters for the GetResource operation.
type GetResourceInput struct {
	ID string // required
}

// GetResourceOutput contains the fetched resource.
type GetResourceOutput struct {
	Resource *para.Resource `json:"resource"`
}

// GetResource fetches one resource by ID.
func GetResource(ctx context.Context, database *sql.DB, cfg *config.Config, input GetResourceInput) (*GetResourceOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	r, err := db.GetResource(database, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetResourceOutput{Resource: r}, nil
}

// UpdateResourceInput contains parameters for the UpdateResource operation.
// Nil fields are left unchanged.
type UpdateResourceInput struct {
	ID       string   // required
	Content  *string  // optional replacement content
	Tags     []string // optional replacement tag set
	Deadline *int64   // optional deadline (Unix timestamp)
}

// UpdateResourceOutput contains the updated resource.
type UpdateResourceOutput struct {
	Resource *para.Resource `json:"resource"`
}

// UpdateResource updates mutable resource fields. Category moves go through
// MoveResource, which enforces the transition table.
func UpdateResource(ctx context.Context, database *sql.DB, cfg *config.Config, input UpdateResourceInput) (*UpdateResourceOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	r, err := db.GetResource(database, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		r = r.WithContent(*input.Content)
	}
	if input.Tags != nil {
		r = r.WithTags(input.Tags)
	}
	if input.Deadline != nil {
		r.Deadline = input.Deadline
	}

	if err := db.UpdateResource(database, r); err != nil {
		return nil, err
	}

	return &UpdateResourceOutput{Resource: r}, nil
}

// MoveResourceInput contains parameters for the MoveResource operation.
type MoveResourceInput struct {
	ID       string // required
	Category string // required target category
}

// MoveResourceOutput records the category transition.
type MoveResourceOutput struct {
	Resource *para.Resource `json:"resource"`
	From     para.Category  `json:"from"`
	To       para.Category  `json:"to"`
}

// MoveResource moves a resource to another PARA category. Illegal moves
// (PROJECT to RESOURCE, same-category moves) are INVALID_STATE_TRANSITION.
func MoveResource(ctx context.Context, database *sql.DB, cfg *config.Config, input MoveResourceInput) (*MoveResourceOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	target, err := para.CategoryFromString(input.Category)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	r, err := db.GetResource(database, input.ID)
	if err != nil {
		return nil, err
	}

	from := r.Category
	moved, err := r.WithCategory(target)
	if err != nil {
		return nil, err
	}

	if err := db.UpdateResource(database, moved); err != nil {
		return nil, err
	}

	return &MoveResourceOutput{Resource: moved, From: from, To: target}, nil
}

// ListResourcesInput contains parameters for the ListResources operation.
type ListResourcesInput struct {
	Category string // optional filter
	Limit    int    // 0 means default
}

// ListResourcesOutput contains the matching resources plus pagination info.
type ListResourcesOutput struct {
	Resources []*para.Resource `json:"resources"`
	Total     int              `json:"total"`
}

// ListResources lists resources newest-first, optionally by category.
func ListResources(ctx context.Context, database *sql.DB, cfg *config.Config, input ListResourcesInput) (*ListResourcesOutput, error) {
	if input.Category != "" {
		if _, err := para.CategoryFromString(input.Category); err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
	}

	resources, err := db.ListResources(database, input.Category, clampLimit(input.Limit))
	if err != nil {
		return nil, err
	}

	return &ListResourcesOutput{Resources: resources, Total: len(resources)}, nil
}
