// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
//   - UserService: the credential store. Registers users, verifies passwords
//     and resolves users by ID for the access middleware.
//   - TaskService: the owner-scoped task repository. Every read and delete is
//     filtered by the authenticated owner, and task creation schedules a
//     best-effort notification that can never fail the create.
//
// Services receive their dependencies through constructor injection and
// depend only on store interfaces, never on a specific database.
package service
