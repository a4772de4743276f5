package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/notify"
	"github.com/phrazzld/tasktrack-api/internal/platform/metrics"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	metrics *metrics.Metrics
	stores  *stores

	notifier    io.Closer
	dispatcher  *notify.Dispatcher
	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService
}

// newApplication wires every dependency and starts the background parts:
// the store gateway (which keeps dialing until the store answers) and the
// notification workers.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.stores, err = openStores(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	notifier, closer, err := notify.NewFromConfig(cfg.Notify, logger.With("component", "notifier"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}
	app.notifier = closer
	app.dispatcher = notify.NewDispatcher(notifier, notify.DispatcherConfig{
		QueueSize:   cfg.Notify.QueueSize,
		WorkerCount: cfg.Notify.WorkerCount,
		SendTimeout: cfg.Notify.SendTimeout,
	}, logger)
	app.dispatcher.SetRecorder(app.metrics)

	app.userService, err = service.NewUserService(
		app.stores.users,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		logger,
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	app.taskService = service.NewTaskService(app.stores.tasks, app.dispatcher, logger)

	app.stores.gateway.SetRecorder(app.metrics)
	app.stores.gateway.Start(ctx)
	go awaitStore(ctx, app.stores.gateway, cfg.Database.ConnectTimeout, logger)
	app.dispatcher.Start()

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts everything down.
func (app *application) Run(ctx context.Context) error {
	router := newRouter(routerDeps{
		logger:        app.logger,
		metrics:       app.metrics,
		jwtService:    app.jwtService,
		userService:   app.userService,
		taskService:   app.taskService,
		storeState:    app.stores.gateway,
		authRateLimit: app.config.Server.AuthRateLimit,
	})

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources after the HTTP server has stopped: queued
// notifications drain first, then the transports and the store connection
// close.
func (app *application) cleanup(ctx context.Context) {
	if err := app.dispatcher.Stop(ctx); err != nil {
		app.logger.Warn("notification dispatcher stopped early", "error", err)
	}

	if err := app.notifier.Close(); err != nil {
		app.logger.Error("Error closing notifier", "error", err)
	}

	if err := app.stores.gateway.Close(ctx); err != nil {
		app.logger.Error("Error closing record store connection", "error", err)
	}

	app.logger.Info("Application shutdown completed")
}
