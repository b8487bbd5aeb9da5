package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/mapper"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrEventNotFound is returned when an event is not found
var ErrEventNotFound = errors.New("event not found")

// ErrInvalidEventStatus is returned for an unknown event status value
var ErrInvalidEventStatus = errors.New("invalid event status")

// EventService handles business logic for events and their academy membership
type EventService struct {
	eventRepo     *repository.EventRepository
	academyRepo   *repository.AcademyRepository
	notifications *NotificationService
	logger        *zap.Logger
}

// NewEventService creates a new EventService instance
func NewEventService(
	eventRepo *repository.EventRepository,
	academyRepo *repository.AcademyRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:     eventRepo,
		academyRepo:   academyRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Create schedules a new event and links its initial academy set
func (s *EventService) Create(ctx context.Context, req *domain.CreateEventRequest) (*domain.EventDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.EventStatusUpcoming
	}
	if !status.IsValid() {
		return nil, ErrInvalidEventStatus
	}

	event := &domain.Event{
		Name:          req.Name,
		City:          req.City,
		State:         req.State,
		Address:       req.Address,
		Status:        status,
		SalespersonID: req.SalespersonID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	for _, academyID := range req.AcademiesIDs {
		if err := s.eventRepo.LinkAcademy(ctx, event.ID, academyID); err != nil {
			return nil, fmt.Errorf("failed to link academy %s: %w", academyID, err)
		}
	}

	s.logger.Info("event created",
		zap.String("eventID", event.ID.String()),
		zap.String("name", event.Name),
		zap.Int("academies", len(req.AcademiesIDs)),
	)

	if event.SalespersonID != nil {
		s.notifications.Notify(ctx, *event.SalespersonID,
			fmt.Sprintf("You were assigned to event %q.", event.Name))
	}

	dto := mapper.ToEventDTO(event, req.AcademiesIDs)
	return &dto, nil
}

// GetByID returns one event with its active academy membership
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventDTO, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	academyIDs, err := s.eventRepo.ListAcademyIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list event academies: %w", err)
	}

	dto := mapper.ToEventDTO(event, academyIDs)
	return &dto, nil
}

// List returns a page of events with resolved academy membership
func (s *EventService) List(ctx context.Context, page, pageSize int, status domain.EventStatus, salespersonID *uuid.UUID) (*domain.PaginatedResponse, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidEventStatus
	}

	events, total, err := s.eventRepo.List(ctx, page, pageSize, status, salespersonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	dtos := make([]domain.EventDTO, len(events))
	for i := range events {
		academyIDs, err := s.eventRepo.ListAcademyIDs(ctx, events[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list event academies: %w", err)
		}
		dtos[i] = mapper.ToEventDTO(&events[i], academyIDs)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update rewrites the event and reconciles its academy membership against
// the full desired set in the request. Membership changes are a diff: one
// link per newly added academy, one soft-delete unlink per removed one.
// Unchanged links are left untouched.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEventRequest) (*domain.EventDTO, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	status := req.Status
	if status == "" {
		status = event.Status
	}
	if !status.IsValid() {
		return nil, ErrInvalidEventStatus
	}

	previousSalesperson := event.SalespersonID
	detailsChanged := event.Name != req.Name || event.City != req.City ||
		event.State != req.State || event.Address != req.Address ||
		!event.StartDate.Equal(req.StartDate) || !event.EndDate.Equal(req.EndDate)

	event.Name = req.Name
	event.City = req.City
	event.State = req.State
	event.Address = req.Address
	event.Status = status
	event.SalespersonID = req.SalespersonID
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	currentIDs, err := s.eventRepo.ListAcademyIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list event academies: %w", err)
	}

	added, removed := diffAcademySets(currentIDs, req.AcademiesIDs)

	for _, academyID := range added {
		if err := s.eventRepo.LinkAcademy(ctx, id, academyID); err != nil {
			return nil, fmt.Errorf("failed to link academy %s: %w", academyID, err)
		}
	}
	for _, academyID := range removed {
		if err := s.eventRepo.UnlinkAcademy(ctx, id, academyID); err != nil {
			return nil, fmt.Errorf("failed to unlink academy %s: %w", academyID, err)
		}
	}

	s.logger.Info("event updated",
		zap.String("eventID", id.String()),
		zap.Int("academiesAdded", len(added)),
		zap.Int("academiesRemoved", len(removed)),
	)

	s.notifyEventChanges(ctx, event, previousSalesperson, added, detailsChanged)

	dto := mapper.ToEventDTO(event, req.AcademiesIDs)
	return &dto, nil
}

// notifyEventChanges informs affected salespeople about reassignment,
// newly linked academies and basic detail changes
func (s *EventService) notifyEventChanges(ctx context.Context, event *domain.Event, previous *uuid.UUID, added []uuid.UUID, detailsChanged bool) {
	reassigned := !uuidPtrEqual(previous, event.SalespersonID)

	if reassigned {
		if previous != nil {
			s.notifications.Notify(ctx, *previous,
				fmt.Sprintf("You are no longer assigned to event %q.", event.Name))
		}
		if event.SalespersonID != nil {
			s.notifications.Notify(ctx, *event.SalespersonID,
				fmt.Sprintf("You were assigned to event %q.", event.Name))
		}
		return
	}

	if event.SalespersonID == nil {
		return
	}

	if len(added) > 0 {
		academies, err := s.academyRepo.ListByIDs(ctx, added)
		if err != nil {
			s.logger.Warn("failed to resolve added academies for notification", zap.Error(err))
		} else {
			for _, academy := range academies {
				s.notifications.Notify(ctx, *event.SalespersonID,
					fmt.Sprintf("Academy %q was added to event %q.", academy.Name, event.Name))
			}
		}
	}

	if detailsChanged {
		s.notifications.Notify(ctx, *event.SalespersonID,
			fmt.Sprintf("Details of event %q were updated.", event.Name))
	}
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Info("event deleted", zap.String("eventID", id.String()))
	return nil
}

// diffAcademySets computes which IDs are new in desired and which current
// IDs are missing from it
func diffAcademySets(current, desired []uuid.UUID) (added, removed []uuid.UUID) {
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	for _, id := range desired {
		if !currentSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if !desiredSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
