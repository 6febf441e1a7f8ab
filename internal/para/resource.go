package para

import (
	"time"

	"github.com/dkoenawan/paraflow/internal/errors"
)

// Resource represents the classified, structured output of processing a
// thought, organized under a PARA category. Immutable: category and content
// changes produce a new value.
type Resource struct {
	// ID is a ULID that uniquely identifies this resource
	ID string `json:"id"`

	// Title is a brief summary of the resource
	Title string `json:"title"`

	// Content is the resource body text
	Content string `json:"content"`

	// Category is the PARA category the resource lives under
	Category Category `json:"category"`

	// Tags is the normalized, sorted tag set
	Tags []string `json:"tags,omitempty"`

	// SourceThought references the originating thought ID, if any
	SourceThought *string `json:"source_thought,omitempty"`

	// CreatedAt is the Unix timestamp when the resource was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the resource was last changed
	UpdatedAt int64 `json:"updated_at"`

	// Deadline is an optional Unix timestamp, typically set for projects
	Deadline *int64 `json:"deadline,omitempty"`
}

// NewResource creates a resource with a generated ID and normalized tags.
func NewResource(title, content string, category Category, tags []string, sourceThought *string, deadline *int64) (*Resource, error) {
	if Normalize(title) == "" {
		return nil, errors.NewInvalidRequest("resource title must not be empty")
	}
	id, err := NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()
	return &Resource{
		ID:            id,
		Title:         title,
		Content:       content,
		Category:      category,
		Tags:          NormalizeTags(tags),
		SourceThought: sourceThought,
		CreatedAt:     now,
		UpdatedAt:     now,
		Deadline:      deadline,
	}, nil
}

// WithCategory returns a copy of the resource moved to the given category.
// The move must be legal per the category transition table; archiving and
// reactivation both go through here.
func (r *Resource) WithCategory(next Category) (*Resource, error) {
	if !r.Category.CanTransitionTo(next) {
		return nil, errors.NewInvalidStateTransition(r.Category.String(), next.String())
	}
	clone := *r
	clone.Category = next
	clone.UpdatedAt = time.Now().Unix()
	return &clone, nil
}

// WithContent returns a copy of the resource with new body text.
func (r *Resource) WithContent(content string) *Resource {
	clone := *r
	clone.Content = content
	clone.UpdatedAt = time.Now().Unix()
	return &clone
}

// WithTags returns a copy of the resource with the given tags, normalized.
func (r *Resource) WithTags(tags []string) *Resource {
	clone := *r
	clone.Tags = NormalizeTags(tags)
	clone.UpdatedAt = time.Now().Unix()
	return &clone
}

// IsArchived reports whether the resource sits in the archive category.
func (r *Resource) IsArchived() bool {
	return r.Category == CategoryArchive
}
