package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/auth"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/services"
)

// MessageResponse is a bare {"message": ...} body.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler serves the demo-login endpoints.
type AuthHandler struct {
	sessions    *auth.SessionStore
	userService services.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions *auth.SessionStore, userService services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:    sessions,
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/user", h.User)
	mux.HandleFunc("POST /api/auth/demo-login", h.DemoLogin)
	mux.HandleFunc("POST /api/auth/demo-logout", h.DemoLogout)
}

// User handles GET /api/auth/user
// Returns the logged-in user, upserting it first. Anonymous callers get 401.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAuthenticated(r.Context()) {
		writeResult(w, h.logger, http.StatusUnauthorized, MessageResponse{Message: "Not logged in"})
		return
	}

	var record *models.User
	if claims, ok := auth.GetClaims(r.Context()); ok {
		record = claims.User()
	} else {
		record = models.DemoUser()
	}

	user, err := h.userService.Upsert(r.Context(), record)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to load user")
		return
	}

	writeResult(w, h.logger, http.StatusOK, user)
}

// DemoLogin handles POST /api/auth/demo-login
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Upsert(r.Context(), models.DemoUser())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to log in")
		return
	}

	if err := h.sessions.SetDemoLoggedIn(w, r); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to log in"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	writeResult(w, h.logger, http.StatusOK, user)
}

// DemoLogout handles POST /api/auth/demo-logout
func (h *AuthHandler) DemoLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Warn("Failed to clear session", zap.Error(err))
	}

	writeResult(w, h.logger, http.StatusOK, MessageResponse{Message: "Logged out"})
}
