// Package api provides the HTTP handlers of the task tracker: signup, login,
// the current user and the owner-scoped task endpoints, plus the health
// check.
//
// Handlers decode and bound request bodies, delegate to the service layer
// and translate errors with MapErrorToStatusCode and GetSafeErrorMessage.
// Every error body has the shape {"message": "...", "trace_id": "..."}; raw
// error strings only ever reach the logs, and only after redaction.
//
// Subpackages:
//   - middleware: bearer token authentication and request tracing
//   - shared: context keys, JSON helpers and response writers
package api
