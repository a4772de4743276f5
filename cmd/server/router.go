package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/phrazzld/tasktrack-api/internal/api"
	"github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/platform/metrics"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// routerDeps is everything the HTTP surface needs.
type routerDeps struct {
	logger        *slog.Logger
	metrics       *metrics.Metrics
	jwtService    auth.JWTService
	userService   service.UserService
	taskService   service.TaskService
	storeState    api.ConnectionState
	authRateLimit int
}

// newRouter creates and configures the application router.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware(deps.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(deps.metrics.Middleware)

	// Unknown methods on known paths are reported as missing routes, so
	// GET /api/tasks/{id} is a 404 like any other unrouted path.
	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	authMiddleware := middleware.NewAuthMiddleware(deps.jwtService, deps.userService)
	authHandler := api.NewAuthHandler(deps.userService, deps.jwtService, deps.logger)
	taskHandler := api.NewTaskHandler(deps.taskService, deps.logger)
	healthHandler := api.NewHealthHandler(deps.storeState)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.authRateLimit > 0 {
				r.Use(authRateLimiter(deps.authRateLimit))
			}
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/me", authHandler.Me)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		})
	})

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())

	return r
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
}

// authRateLimiter limits credential endpoints per client IP.
func authRateLimiter(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests, please try again later")
		}),
	)
}
