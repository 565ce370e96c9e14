package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned when caller input fails validation (HTTP 400).
var ErrInvalid = errors.New("invalid input")

// ErrRemote indicates the carrier call failed or returned a non-success status.
// Details are for server-side logs only.
var ErrRemote = errors.New("remote service error")

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field problems and matches ErrInvalid.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalid.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports ErrInvalid so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// RemoteError wraps a carrier failure with the outcome reason.
type RemoteError struct {
	Reason string
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return "remote service error: " + e.Reason
	}
	return fmt.Sprintf("remote service error: %s: %v", e.Reason, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is reports ErrRemote so callers can use errors.Is.
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }
