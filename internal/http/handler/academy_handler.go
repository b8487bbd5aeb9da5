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

// AcademyHandler handles HTTP requests for the academy registry
type AcademyHandler struct {
	academyService *service.AcademyService
	logger         *zap.Logger
}

// NewAcademyHandler creates a new AcademyHandler instance
func NewAcademyHandler(academyService *service.AcademyService, logger *zap.Logger) *AcademyHandler {
	return &AcademyHandler{
		academyService: academyService,
		logger:         logger,
	}
}

func (h *AcademyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	search := r.URL.Query().Get("search")

	result, err := h.academyService.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.Error("failed to list academies", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list academies")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *AcademyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid academy ID")
		return
	}

	academy, err := h.academyService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAcademyNotFound) {
			respondWithError(w, http.StatusNotFound, "Academy not found")
			return
		}
		h.logger.Error("failed to get academy", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get academy")
		return
	}

	respondJSON(w, http.StatusOK, academy)
}

func (h *AcademyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAcademyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	academy, err := h.academyService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create academy", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create academy")
		return
	}

	respondJSON(w, http.StatusCreated, academy)
}

func (h *AcademyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid academy ID")
		return
	}

	var req domain.UpdateAcademyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	academy, err := h.academyService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrAcademyNotFound) {
			respondWithError(w, http.StatusNotFound, "Academy not found")
			return
		}
		h.logger.Error("failed to update academy", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update academy")
		return
	}

	respondJSON(w, http.StatusOK, academy)
}

func (h *AcademyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid academy ID")
		return
	}

	if err := h.academyService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrAcademyNotFound) {
			respondWithError(w, http.StatusNotFound, "Academy not found")
			return
		}
		h.logger.Error("failed to delete academy", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete academy")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
