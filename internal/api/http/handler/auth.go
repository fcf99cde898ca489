package handler

import (
	"net/http"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/service"
)

// Auth serves registration, login and logout.
type Auth struct {
	authService    *service.Auth
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService *service.Auth, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	token, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// Login handles POST /auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Logout handles POST /auth/logout.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		handleError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}

	if err := h.authService.Logout(r.Context(), identity); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
