package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sgt/fitapi/internal/middleware"
	"github.com/sgt/fitapi/internal/model"
)

// AuthService is the subset of the auth service used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Me(ctx context.Context, userID string) (*model.MeResponse, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "register")
		return
	}

	WriteData(w, http.StatusCreated, result, map[string]string{
		"self": "/v1/auth/me",
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "login")
		return
	}

	WriteData(w, http.StatusOK, result, map[string]string{
		"self": "/v1/auth/me",
	})
}

// Ping handles GET /v1/auth/ping
func (h *AuthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me handles GET /v1/auth/me. It sits behind optional auth, so an
// anonymous caller gets authenticated=false rather than a 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.authService.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err, "me")
		return
	}

	WriteData(w, http.StatusOK, me, nil)
}

// writeServiceError maps err and logs anything that surfaces as a 500
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, operation string) {
	problem := MapServiceErrorWithContext(err, operation)
	if problem.Status >= http.StatusInternalServerError {
		logger.Error("unhandled service error", "operation", operation, "error", err)
	}
	WriteError(w, problem)
}

// requireUser returns the authenticated user ID or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return "", false
	}
	return userID, true
}
