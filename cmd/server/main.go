// Package main implements the entry point for the task tracker API server.
// It loads configuration, supervises the record store connection, starts
// the notification workers and serves the HTTP API until it receives
// SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	cfg, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrate != "" {
		if err := runMigrations(ctx, cfg, *migrate); err != nil {
			slog.Error("migration failed", "command", *migrate, "error", err)
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(ctx, cfg, slog.Default())
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads .env (if present) and configuration and sets up
// logging. Misconfiguration is the only fatal startup condition; an
// unreachable record store is not.
func initializeApp() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"notify_driver", cfg.Notify.Driver,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	return cfg, nil
}
