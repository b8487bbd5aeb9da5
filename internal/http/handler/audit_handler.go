package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler exposes the admin action trail
type AuditHandler struct {
	auditService *service.AuditService
	logger       *zap.Logger
}

// NewAuditHandler creates a new AuditHandler instance
func NewAuditHandler(auditService *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	action := r.URL.Query().Get("action")

	var userID *uuid.UUID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		userID = &id
	}

	entries, total, err := h.auditService.List(r.Context(), page, pageSize, userID, action)
	if err != nil {
		h.logger.Error("failed to list audit logs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list audit logs")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       entries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}
