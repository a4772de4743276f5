package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidPriority is returned when a task priority is outside the allowed set.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidStatus is returned when a task status is outside the allowed set.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidDueDate is returned when a due date cannot be parsed.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single failed validation rule. It always
// unwraps to ErrValidation (or a more specific domain error) so callers can
// match it with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// NewMissingFieldsError reports every required field that was left empty.
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{
		Message: "Missing required fields: " + strings.Join(fields, ", "),
		Err:     ErrValidation,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped domain error.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Is lets every ValidationError match ErrValidation, even when it wraps a
// more specific sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
