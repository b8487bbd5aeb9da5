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

// EventHandler handles HTTP requests for events
type EventHandler struct {
	eventService *service.EventService
	visitService *service.VisitService
	logger       *zap.Logger
}

// NewEventHandler creates a new EventHandler instance
func NewEventHandler(eventService *service.EventService, visitService *service.VisitService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		visitService: visitService,
		logger:       logger,
	}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := domain.EventStatus(r.URL.Query().Get("status"))

	var salespersonID *uuid.UUID
	if raw := r.URL.Query().Get("salespersonId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid salesperson ID")
			return
		}
		salespersonID = &id
	}

	result, err := h.eventService.List(r.Context(), page, pageSize, status, salespersonID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEventStatus) {
			respondWithError(w, http.StatusBadRequest, "Invalid event status")
			return
		}
		h.logger.Error("failed to list events", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	event, err := h.eventService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		h.logger.Error("failed to get event", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get event")
		return
	}

	respondJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEventStatus) {
			respondWithError(w, http.StatusBadRequest, "Invalid event status")
			return
		}
		h.logger.Error("failed to create event", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	var req domain.UpdateEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.eventService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			respondWithError(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrInvalidEventStatus):
			respondWithError(w, http.StatusBadRequest, "Invalid event status")
		default:
			h.logger.Error("failed to update event", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update event")
		}
		return
	}

	respondJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	if err := h.eventService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		h.logger.Error("failed to delete event", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListVisits returns every visit recorded for the event
func (h *EventHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	visits, err := h.visitService.ListByEvent(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list event visits", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list visits")
		return
	}

	respondJSON(w, http.StatusOK, visits)
}
