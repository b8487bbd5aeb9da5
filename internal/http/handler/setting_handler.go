package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// SettingHandler handles HTTP requests for system settings
type SettingHandler struct {
	settingService *service.SettingService
	logger         *zap.Logger
}

// NewSettingHandler creates a new SettingHandler instance
func NewSettingHandler(settingService *service.SettingService, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		logger:         logger,
	}
}

func (h *SettingHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	setting, err := h.settingService.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			respondWithError(w, http.StatusNotFound, "Setting not found")
			return
		}
		h.logger.Error("failed to get setting", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get setting")
		return
	}

	respondJSON(w, http.StatusOK, setting)
}

func (h *SettingHandler) Set(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req domain.SetSettingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	setting, err := h.settingService.Set(r.Context(), key, req.Value)
	if err != nil {
		h.logger.Error("failed to set setting", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to set setting")
		return
	}

	respondJSON(w, http.StatusOK, setting)
}
