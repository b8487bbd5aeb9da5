package handler

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// ElevationHandler handles temporary admin elevation sessions
type ElevationHandler struct {
	elevationService *service.ElevationService
	logger           *zap.Logger
}

// NewElevationHandler creates a new ElevationHandler instance
func NewElevationHandler(elevationService *service.ElevationService, logger *zap.Logger) *ElevationHandler {
	return &ElevationHandler{
		elevationService: elevationService,
		logger:           logger,
	}
}

// Check reports whether the caller currently holds an elevated session
func (h *ElevationHandler) Check(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	status, err := h.elevationService.Check(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to check elevation", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to check elevation")
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// Request opens an elevated session after re-verifying the password
func (h *ElevationHandler) Request(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.RequestElevationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.elevationService.Request(r.Context(), userCtx.UserID, &req, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrElevationPasswordMismatch) {
			respondWithError(w, http.StatusUnauthorized, "Password verification failed")
			return
		}
		h.logger.Error("failed to request elevation", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to request elevation")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Revoke closes the caller's elevated sessions
func (h *ElevationHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	reason := r.URL.Query().Get("reason")
	if reason == "" {
		reason = "manual"
	}

	result, err := h.elevationService.Revoke(r.Context(), userCtx.UserID, reason, clientIP(r), r.UserAgent())
	if err != nil {
		h.logger.Error("failed to revoke elevation", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to revoke elevation")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// clientIP resolves the caller address, preferring proxy headers
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
