package para

import (
	"fmt"
	"strings"
)

// Status represents the processing lifecycle state of a thought.
type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// AllStatuses lists every valid status in canonical order.
var AllStatuses = []Status{
	StatusNew,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
	StatusSkipped,
}

// statusTransitions encodes the legal lifecycle moves:
// new thoughts start processing or get skipped, processing either completes
// or fails, and failed thoughts may be retried. Completed and skipped are
// terminal.
var statusTransitions = map[Status]map[Status]bool{
	StatusNew:        {StatusProcessing: true, StatusSkipped: true},
	StatusProcessing: {StatusCompleted: true, StatusFailed: true},
	StatusFailed:     {StatusProcessing: true},
	StatusCompleted:  {},
	StatusSkipped:    {},
}

// StatusFromString parses a status from its string value (case-insensitive).
func StatusFromString(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusNew, StatusProcessing, StatusCompleted, StatusFailed, StatusSkipped:
		return st, nil
	}
	return "", fmt.Errorf("invalid processing status: %q (valid: new, processing, completed, failed, skipped)", s)
}

// String returns the string value of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle move.
func (s Status) CanTransitionTo(next Status) bool {
	return statusTransitions[s][next]
}

// IsTerminal reports whether the status is a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}
