package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// AllowlistHandler handles HTTP requests for the access allowlist
type AllowlistHandler struct {
	allowlistService *service.AllowlistService
	logger           *zap.Logger
}

// NewAllowlistHandler creates a new AllowlistHandler instance
func NewAllowlistHandler(allowlistService *service.AllowlistService, logger *zap.Logger) *AllowlistHandler {
	return &AllowlistHandler{
		allowlistService: allowlistService,
		logger:           logger,
	}
}

func (h *AllowlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.allowlistService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list allowlist", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list allowlist")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *AllowlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.AddAllowlistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.allowlistService.Add(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAllowlistEntryExists) {
			respondWithError(w, http.StatusConflict, "Email is already on the allowlist")
			return
		}
		h.logger.Error("failed to add allowlist entry", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to add allowlist entry")
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// Deactivate keeps the row but blocks future access requests
func (h *AllowlistHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid allowlist entry ID")
		return
	}

	if err := h.allowlistService.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrAllowlistEntryNotFound) {
			respondWithError(w, http.StatusNotFound, "Allowlist entry not found")
			return
		}
		h.logger.Error("failed to deactivate allowlist entry", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to deactivate allowlist entry")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AllowlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid allowlist entry ID")
		return
	}

	if err := h.allowlistService.Remove(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrAllowlistEntryNotFound) {
			respondWithError(w, http.StatusNotFound, "Allowlist entry not found")
			return
		}
		h.logger.Error("failed to remove allowlist entry", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to remove allowlist entry")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
