package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// FinanceHandler handles HTTP requests for commission records
type FinanceHandler struct {
	financeService *service.FinanceService
	logger         *zap.Logger
}

// NewFinanceHandler creates a new FinanceHandler instance
func NewFinanceHandler(financeService *service.FinanceService, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		logger:         logger,
	}
}

// List returns commission records. Salespeople see only their own rows.
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, pageSize := pagination(r)
	status := domain.FinanceStatus(r.URL.Query().Get("status"))

	var salespersonID *uuid.UUID
	if !userCtx.IsAdmin() {
		salespersonID = &userCtx.UserID
	} else if raw := r.URL.Query().Get("salespersonId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid salesperson ID")
			return
		}
		salespersonID = &id
	}

	result, err := h.financeService.List(r.Context(), page, pageSize, salespersonID, status)
	if err != nil {
		h.logger.Error("failed to list finance records", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list finance records")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *FinanceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid finance record ID")
		return
	}

	record, err := h.financeService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrFinanceNotFound) {
			respondWithError(w, http.StatusNotFound, "Finance record not found")
			return
		}
		h.logger.Error("failed to get finance record", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get finance record")
		return
	}

	userCtx, ok := auth.FromContext(r.Context())
	if !ok || (!userCtx.IsAdmin() && record.SalespersonID != userCtx.UserID) {
		respondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (h *FinanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFinanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.financeService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create finance record", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create finance record")
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

// Update moves a record along the payment chain. A salesperson may only
// confirm receipt of their own commission.
func (h *FinanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid finance record ID")
		return
	}

	var req domain.UpdateFinanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !userCtx.IsAdmin() {
		existing, err := h.financeService.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrFinanceNotFound) {
				respondWithError(w, http.StatusNotFound, "Finance record not found")
				return
			}
			h.logger.Error("failed to get finance record", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to get finance record")
			return
		}
		if existing.SalespersonID != userCtx.UserID {
			respondWithError(w, http.StatusForbidden, "Access denied")
			return
		}
		// Salespeople can only confirm receipt
		if req.Amount != nil || req.Observation != nil ||
			req.Status == nil || *req.Status != domain.FinanceStatusReceived {
			respondWithError(w, http.StatusForbidden, "Only receipt confirmation is allowed")
			return
		}
	}

	record, err := h.financeService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFinanceNotFound):
			respondWithError(w, http.StatusNotFound, "Finance record not found")
		case errors.Is(err, service.ErrInvalidFinanceTransition):
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to update finance record", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update finance record")
		}
		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (h *FinanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid finance record ID")
		return
	}

	if err := h.financeService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrFinanceNotFound) {
			respondWithError(w, http.StatusNotFound, "Finance record not found")
			return
		}
		h.logger.Error("failed to delete finance record", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete finance record")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
