package domain

import (
	"errors"
	"fmt"
)

// ErrSiteNotFound is returned when a site does not exist or the caller
// does not own it. The two cases are deliberately indistinguishable.
var ErrSiteNotFound = errors.New("site not found")

// ValidationError marks a permanently rejected input. Retrying the same
// payload will fail again.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TransientError wraps a storage or network failure that is expected to
// succeed on retry (medium unavailable, deadline exceeded).
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as retryable, tagged with the failing operation.
func NewTransientError(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

// IsValidation reports whether err is a permanent validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
