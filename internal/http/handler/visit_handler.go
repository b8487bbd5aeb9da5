package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// VisitHandler handles HTTP requests for the visit lifecycle
type VisitHandler struct {
	visitService *service.VisitService
	logger       *zap.Logger
}

// NewVisitHandler creates a new VisitHandler instance
func NewVisitHandler(visitService *service.VisitService, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{
		visitService: visitService,
		logger:       logger,
	}
}

// Start opens a draft visit for the caller
func (h *VisitHandler) Start(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.StartVisitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	visit, err := h.visitService.Start(r.Context(), userCtx.UserID, &req)
	if err != nil {
		h.logger.Error("failed to start visit", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to start visit")
		return
	}

	respondJSON(w, http.StatusCreated, visit)
}

// Finalize completes a visit and issues its vouchers
func (h *VisitHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.FinalizeVisitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.visitService.Finalize(r.Context(), userCtx.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrVisitIncomplete) {
			respondWithError(w, http.StatusBadRequest, "Visit requires notes and temperature before completion")
			return
		}
		h.logger.Error("failed to finalize visit", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to finalize visit")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Cancel discards a draft visit identified by its natural key
func (h *VisitHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID, academyID, ok := naturalKeyParams(w, r)
	if !ok {
		return
	}

	if err := h.visitService.Cancel(r.Context(), eventID, academyID); err != nil {
		switch {
		case errors.Is(err, service.ErrVisitNotFound):
			respondWithError(w, http.StatusNotFound, "Visit not found")
		case errors.Is(err, service.ErrVisitAlreadyFinalized):
			respondWithError(w, http.StatusConflict, "Visit has already been finalized")
		default:
			h.logger.Error("failed to cancel visit", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to cancel visit")
		}
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Get resolves a visit by its (event, academy) natural key
func (h *VisitHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, academyID, ok := naturalKeyParams(w, r)
	if !ok {
		return
	}

	visit, err := h.visitService.GetByNaturalKey(r.Context(), eventID, academyID)
	if err != nil {
		if errors.Is(err, service.ErrVisitNotFound) {
			respondWithError(w, http.StatusNotFound, "Visit not found")
			return
		}
		h.logger.Error("failed to get visit", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get visit")
		return
	}

	respondJSON(w, http.StatusOK, visit)
}

// ListMine returns the caller's visits
func (h *VisitHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	visits, err := h.visitService.ListBySalesperson(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to list visits", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list visits")
		return
	}

	respondJSON(w, http.StatusOK, visits)
}

// naturalKeyParams reads eventId/academyId query parameters
func naturalKeyParams(w http.ResponseWriter, r *http.Request) (eventID, academyID uuid.UUID, ok bool) {
	eventID, err := uuid.Parse(r.URL.Query().Get("eventId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return uuid.Nil, uuid.Nil, false
	}
	academyID, err = uuid.Parse(r.URL.Query().Get("academyId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid academy ID")
		return uuid.Nil, uuid.Nil, false
	}
	return eventID, academyID, true
}
