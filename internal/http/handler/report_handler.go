package handler

import (
	"net/http"

	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// ReportHandler serves aggregate dashboard numbers
type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to build report summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build report summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
