// Package service provides application-level services for managing users and tasks.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Store and domain errors are wrapped with %w so their sentinels stay visible
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrInvalidCredentials is returned by Authenticate for an unknown email
	// and for a wrong password alike, so callers cannot tell which failed.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidCredentials = errors.New("invalid login credentials")
)
