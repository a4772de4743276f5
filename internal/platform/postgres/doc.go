// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. Stores borrow
// their *sql.DB from the connection gateway for every operation, map driver
// errors onto store sentinels, and report broken connections back to the
// gateway. The schema ships as embedded goose migrations.
package postgres
