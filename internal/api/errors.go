package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// User-facing messages shared by several handlers.
const (
	msgEmailExists        = "Email already registered. Please use a different email or try logging in."
	msgInvalidCredentials = "Invalid login credentials"
	msgTaskNotFound       = "Task not found"
	msgUnavailable        = "Service temporarily unavailable"
	msgUnauthenticated    = "Please authenticate"
	msgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Infrastructure first: an outage can wrap anything
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	// Bad request errors. Duplicate email stays 400 for client compatibility.
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	// Domain validation messages name fields and rules only
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) && !errors.Is(err, store.ErrStoreUnavailable) {
		return validationErr.Error()
	}

	switch {
	case errors.Is(err, store.ErrStoreUnavailable):
		return msgUnavailable

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, store.ErrUserNotFound):
		return msgUnauthenticated

	case errors.Is(err, store.ErrTaskNotFound):
		return msgTaskNotFound

	case errors.Is(err, store.ErrEmailExists):
		return msgEmailExists

	case errors.Is(err, service.ErrInvalidCredentials):
		return msgInvalidCredentials

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, shared.ErrBodyTooLarge):
		return "Request body too large"

	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details. fallback replaces the generic message for 500s.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError removes sensitive details from validator errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
