package errors

import "fmt"

// ErrorCode represents a ParaFlow error code.
type ErrorCode string

const (
	ErrInvalidRequest         ErrorCode = "INVALID_REQUEST"          // 400
	ErrNotFound               ErrorCode = "NOT_FOUND"                // 404
	ErrInvalidStateTransition ErrorCode = "INVALID_STATE_TRANSITION" // 409
	ErrConflict               ErrorCode = "CONFLICT"                 // 409
	ErrValidationFailed       ErrorCode = "VALIDATION_FAILED"        // 422
	ErrConfirmationRequired   ErrorCode = "CONFIRMATION_REQUIRED"    // 428
	ErrTimeout                ErrorCode = "TIMEOUT"                  // 504
	ErrInternal               ErrorCode = "INTERNAL"                 // 500
)

// ParaError represents a structured error with code, status, and details.
type ParaError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ParaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ParaError {
	return &ParaError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing thought, resource, database, or record.
func NewNotFound(kind, identifier string) *ParaError {
	return &ParaError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewInvalidStateTransition creates a 409 error for an illegal lifecycle move.
func NewInvalidStateTransition(from, to string) *ParaError {
	return &ParaError{
		Code:    ErrInvalidStateTransition,
		Status:  409,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
		Details: map[string]any{"from": from, "to": to},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *ParaError {
	return &ParaError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewValidationFailed creates a 422 error carrying the per-property violations.
// Each violation names the offending property so callers can report them together.
func NewValidationFailed(violations []string) *ParaError {
	return &ParaError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: fmt.Sprintf("record does not conform to schema: %d violation(s)", len(violations)),
		Details: map[string]any{"violations": violations},
	}
}

// NewConfirmationRequired creates a 428 error for a destructive operation
// attempted without explicit confirmation.
func NewConfirmationRequired(msg string) *ParaError {
	return &ParaError{
		Code:    ErrConfirmationRequired,
		Status:  428,
		Message: msg,
	}
}

// NewTimeout creates a 504 error for an operation that exceeded its deadline.
func NewTimeout(op string) *ParaError {
	return &ParaError{
		Code:    ErrTimeout,
		Status:  504,
		Message: fmt.Sprintf("operation timed out: %s", op),
		Details: map[string]any{"operation": op},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ParaError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ParaError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ParaError with the given code.
func Is(err error, code ErrorCode) bool {
	if pErr, ok := err.(*ParaError); ok {
		return pErr.Code == code
	}
	return false
}

// Violations extracts the violation list from a VALIDATION_FAILED error.
// Returns nil for any other error.
func Violations(err error) []string {
	pErr, ok := err.(*ParaError)
	if !ok || pErr.Code != ErrValidationFailed {
		return nil
	}
	v, _ := pErr.Details["violations"].([]string)
	return v
}
