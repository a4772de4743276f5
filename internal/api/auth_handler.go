package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// AuthHandler handles signup, login and the current-user endpoint.
type AuthHandler struct {
	userService service.UserService
	jwtService  auth.JWTService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}

	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "An error occurred during signup. Please try again.")
		return
	}

	h.respondWithSession(w, r, http.StatusCreated, "User registered successfully", user)
	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)))
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "An error occurred during login")
		return
	}

	h.respondWithSession(w, r, http.StatusOK, "Login successful", user)
}

// Me handles GET /api/me. The middleware has already loaded the user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

func (h *AuthHandler) respondWithSession(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	user *domain.User,
) {
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		Message: message,
		User:    userToResponse(user),
		Token:   token,
	})
}
