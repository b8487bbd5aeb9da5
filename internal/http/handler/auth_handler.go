package handler

import (
	"errors"
	"net/http"

	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler handles login, access requests, activation and resets
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService *service.AuthService, userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrAccountInactive):
			respondWithError(w, http.StatusForbidden, "Account is inactive")
		default:
			h.logger.Error("login failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to load profile", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestAccessRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.RequestAccess(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotAllowed):
			respondWithError(w, http.StatusForbidden, "Email is not on the access allowlist")
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			respondWithError(w, http.StatusConflict, "Email is already registered")
		default:
			h.logger.Error("access request failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Access request failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req domain.ActivateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.ActivateUser(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			respondWithError(w, http.StatusConflict, "Email is already registered")
		default:
			h.logger.Error("activation failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Activation failed")
		}
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) GenerateInvite(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateInviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.GenerateInvite(r.Context(), &req)
	if err != nil {
		h.logger.Error("invite generation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Invite generation failed")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) RevokeInvite(w http.ResponseWriter, r *http.Request) {
	var req domain.RevokeInviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.RevokeInvite(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("invite revocation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Invite revocation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestAccessRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.RequestReset(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("reset request failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Reset request failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.ResetPassword(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredToken) {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		h.logger.Error("password reset failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Password reset failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
