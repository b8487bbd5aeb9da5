package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/service"
	"go.uber.org/zap"
)

// VoucherHandler handles HTTP requests for vouchers and the public
// redemption page
type VoucherHandler struct {
	voucherService *service.VoucherService
	logger         *zap.Logger
}

// NewVoucherHandler creates a new VoucherHandler instance
func NewVoucherHandler(voucherService *service.VoucherService, logger *zap.Logger) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
		logger:         logger,
	}
}

// ListByEvent returns every voucher issued for an event
func (h *VoucherHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	vouchers, err := h.voucherService.ListByEvent(r.Context(), eventID)
	if err != nil {
		h.logger.Error("failed to list vouchers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list vouchers")
		return
	}

	respondJSON(w, http.StatusOK, vouchers)
}

// ListByVisit returns the vouchers issued by one visit
func (h *VoucherHandler) ListByVisit(w http.ResponseWriter, r *http.Request) {
	visitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid visit ID")
		return
	}

	vouchers, err := h.voucherService.ListByVisit(r.Context(), visitID)
	if err != nil {
		h.logger.Error("failed to list vouchers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list vouchers")
		return
	}

	respondJSON(w, http.StatusOK, vouchers)
}

// Public resolves a shared link payload. No authentication; expired
// links answer 410 with the decoded payload so the page can explain.
func (h *VoucherHandler) Public(w http.ResponseWriter, r *http.Request) {
	payload := chi.URLParam(r, "*")
	if payload == "" {
		respondWithError(w, http.StatusBadRequest, "Missing voucher payload")
		return
	}

	result, err := h.voucherService.ResolvePublic(payload, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrMalformedVoucherLink) {
			respondWithError(w, http.StatusBadRequest, "Malformed voucher link")
			return
		}
		h.logger.Error("failed to resolve voucher link", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve voucher link")
		return
	}

	if result.Expired {
		respondJSON(w, http.StatusGone, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// QRCode renders the QR image for a link passed as a query parameter
func (h *VoucherHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		respondWithError(w, http.StatusBadRequest, "Missing link parameter")
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size < 100 || size > 1000 {
		size = 300
	}

	png, err := h.voucherService.QRCodePNG(link, size)
	if err != nil {
		h.logger.Error("failed to render QR code", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
