package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/gateway"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Gateway is the part of the connection gateway the stores depend on.
// *gateway.Gateway[*sql.DB] implements it.
type Gateway interface {
	Handle() (*sql.DB, error)
	MarkDown(err error)
}

// NewDriver returns the gateway driver for PostgreSQL. Every successful dial
// also applies pending migrations, so the schema is in place after the store
// comes back from an outage.
func NewDriver(cfg config.DatabaseConfig, logger *slog.Logger) gateway.Driver[*sql.DB] {
	log := logger.With("component", "postgres")

	return gateway.Driver[*sql.DB]{
		Name: config.DriverPostgres,
		Dial: func(ctx context.Context) (*sql.DB, error) {
			db, err := sql.Open("pgx", cfg.URL)
			if err != nil {
				return nil, fmt.Errorf("failed to open database connection: %w", err)
			}

			// Configure connection pool with reasonable defaults
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)

			if err := db.PingContext(ctx); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to ping database: %w", err)
			}

			if err := Migrate(ctx, db, "up", log); err != nil {
				_ = db.Close()
				return nil, err
			}

			log.Info("database connection established")
			return db, nil
		},
		Ping: func(ctx context.Context, db *sql.DB) error {
			return db.PingContext(ctx)
		},
		Close: func(_ context.Context, db *sql.DB) error {
			return db.Close()
		},
	}
}

// storeError maps err, reports broken connections to the gateway and wraps
// the result with operation context.
func storeError(gw Gateway, logger *slog.Logger, entity, operation string, err error) error {
	mapped := MapError(err)
	if IsConnectionError(err) {
		gw.MarkDown(err)
		logger.Warn("database connection failure",
			"entity", entity,
			"operation", operation,
			"error", redact.Error(err))
	}
	return store.NewStoreError(entity, operation, "database operation failed", mapped)
}
