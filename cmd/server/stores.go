package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/gateway"
	"github.com/phrazzld/tasktrack-api/internal/platform/mongodb"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// storeGateway is the lifecycle surface of gateway.Gateway shared by every
// backend.
type storeGateway interface {
	SetRecorder(r gateway.Recorder)
	Start(ctx context.Context)
	Connected() bool
	WaitReady(ctx context.Context) error
	Close(ctx context.Context) error
}

// stores bundles the gateway with the stores that borrow its handle.
type stores struct {
	gateway storeGateway
	users   store.UserStore
	tasks   store.TaskStore
}

// gatewayConfig translates the database section into supervision settings.
func gatewayConfig(cfg config.DatabaseConfig) gateway.Config {
	return gateway.Config{
		ConnectTimeout:      cfg.ConnectTimeout,
		PingTimeout:         cfg.PingTimeout,
		HealthInterval:      cfg.HealthInterval,
		InitialInterval:     cfg.ReconnectInterval,
		MaxInterval:         cfg.MaxReconnectInterval,
		RandomizationFactor: gateway.DefaultRandomizationFactor,
	}
}

// openStores builds the gateway for the configured backend. Nothing is
// dialed until the gateway is started.
func openStores(cfg config.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		gw := gateway.New(postgres.NewDriver(cfg, logger), gatewayConfig(cfg), logger)
		return &stores{
			gateway: gw,
			users:   postgres.NewPostgresUserStore(gw, logger),
			tasks:   postgres.NewPostgresTaskStore(gw, logger),
		}, nil
	case config.DriverMongo:
		gw := gateway.New(mongodb.NewDriver(cfg, logger), gatewayConfig(cfg), logger)
		return &stores{
			gateway: gw,
			users:   mongodb.NewUserStore(gw, logger),
			tasks:   mongodb.NewTaskStore(gw, logger),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// awaitStore logs when the record store first becomes reachable. If that
// takes longer than grace it warns once and keeps waiting; requests are
// served with 503 in the meantime.
func awaitStore(ctx context.Context, gw storeGateway, grace time.Duration, logger *slog.Logger) {
	graceCtx, cancel := context.WithTimeout(ctx, grace)
	err := gw.WaitReady(graceCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("record store not reachable yet, store-backed requests return 503 until it connects",
			"waited", grace)
		if err := gw.WaitReady(ctx); err != nil {
			return
		}
	}
	logger.Info("record store ready")
}
