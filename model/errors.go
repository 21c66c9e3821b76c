package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a section, item or child entry id does not exist
	ErrNotFound = errors.New("not found")

	// ErrKindMismatch is returned when a patch targets a section of another kind
	ErrKindMismatch = errors.New("patch does not match section kind")

	// ErrOrder is returned when order fields are not the dense sequence 0..n-1
	ErrOrder = errors.New("order is not dense")
)

// FieldError describes one rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects per-field problems found at the edit boundary.
// The document is never modified when a ValidationError is returned.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a problem with field
func (e *ValidationError) Add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether field has at least one problem
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when no problems were recorded, so callers can write
// `return v.Err()` at the end of a validation routine.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidation unwraps a ValidationError from err
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
