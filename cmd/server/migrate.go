package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
)

// runMigrations applies a goose command against the configured PostgreSQL
// database. The mongo backend has no schema; its indexes are ensured on
// every connect.
func runMigrations(ctx context.Context, cfg *config.Config, command string) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations are only supported for the %s driver", config.DriverPostgres)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database connection", "error", closeErr)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Running migrations", "command", command)
	if err := postgres.Migrate(ctx, db, command, slog.Default()); err != nil {
		return err
	}
	slog.Info("Migrations completed", "command", command)
	return nil
}
