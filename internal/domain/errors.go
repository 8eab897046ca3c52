package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a looked-up entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when no authenticated principal is present.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the principal lacks the required capability.
	// It is surfaced before any mutation is attempted.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateApplication is raised by the store when an insert collides
	// with the (tenant_id, job_id, candidate_id) unique index. The lifecycle
	// layer converts it into the already-applied outcome, which is not an
	// error from the caller's point of view.
	ErrDuplicateApplication = errors.New("candidate already applied to this job")
)

// ValidationError reports invalid caller input. It maps to a 400 response and
// is never retried.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
