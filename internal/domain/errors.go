package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups for entities that do not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a missing or unparseable field in a raw record.
// It is recoverable: single-record callers surface it to the client, batch
// ingestion records it per-record without aborting siblings.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
