// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying record store from the
// application's core logic. Implementations live under internal/platform
// (postgres, mongo) and reach the store through a gateway that owns the
// connection.
package store
