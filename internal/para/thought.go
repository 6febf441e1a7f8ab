package para

import (
	"time"

	"github.com/dkoenawan/paraflow/internal/errors"
)

// Thought represents a raw captured unit of user content awaiting
// classification. Thoughts are immutable: status changes produce a new value.
type Thought struct {
	// ID is a ULID that uniquely identifies this thought
	ID string `json:"id"`

	// Title is a brief summary of the thought
	Title string `json:"title"`

	// Content is the free-form thought text (no length limit)
	Content string `json:"content"`

	// CreatedAt is the Unix timestamp when the thought was captured
	CreatedAt int64 `json:"created_at"`

	// Processed reports whether the thought reached a terminal status
	Processed bool `json:"processed"`

	// Status is the current processing lifecycle state
	Status Status `json:"status"`

	// ProjectTag is an optional user-assigned project hint
	ProjectTag *string `json:"project_tag,omitempty"`

	// AreaTag is an optional user-assigned area hint
	AreaTag *string `json:"area_tag,omitempty"`
}

// NewThought creates a thought in status NEW with a generated ID.
func NewThought(title, content string, projectTag, areaTag *string) (*Thought, error) {
	id, err := NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &Thought{
		ID:         id,
		Title:      title,
		Content:    content,
		CreatedAt:  time.Now().Unix(),
		Processed:  false,
		Status:     StatusNew,
		ProjectTag: projectTag,
		AreaTag:    areaTag,
	}, nil
}

// WithStatus returns a copy of the thought in the given status.
// The move must be legal per the status transition table; an illegal move
// returns INVALID_STATE_TRANSITION and leaves the receiver untouched.
func (t *Thought) WithStatus(next Status) (*Thought, error) {
	if !t.Status.CanTransitionTo(next) {
		return nil, errors.NewInvalidStateTransition(t.Status.String(), next.String())
	}
	clone := *t
	clone.Status = next
	clone.Processed = next.IsTerminal()
	return &clone, nil
}

// HasUserTags reports whether the thought carries any user-assigned hints.
func (t *Thought) HasUserTags() bool {
	return (t.ProjectTag != nil && *t.ProjectTag != "") ||
		(t.AreaTag != nil && *t.AreaTag != "")
}

// Preview returns the first maxChars runes of the content for display.
func (t *Thought) Preview(maxChars int) string {
	runes := []rune(t.Content)
	if len(runes) <= maxChars {
		return t.Content
	}
	return string(runes[:maxChars]) + "..."
}
