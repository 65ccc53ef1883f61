package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/handler/dto"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/service"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", out.User.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: out.Token})
}

// handleServiceError maps service errors to HTTP responses.
// Existing emails are reported as 400 for compatibility with current clients.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingRegistrationFields):
		writeMessage(w, http.StatusBadRequest, "Name, email and password are required")
	case errors.Is(err, service.ErrMissingLoginFields):
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
	case errors.Is(err, service.ErrUserExists):
		writeMessage(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Invalid Credentials")
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeMessage(w, http.StatusBadRequest, "Password must be at most 72 bytes")
	case errors.Is(err, auth.ErrMissingSecret):
		h.logger.Error("token signing secret is not configured",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Server config error")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}
