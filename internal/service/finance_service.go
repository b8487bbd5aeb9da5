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

var (
	// ErrFinanceNotFound is returned when a finance record is not found
	ErrFinanceNotFound = errors.New("finance record not found")

	// ErrInvalidFinanceTransition is returned for status changes that skip
	// or reverse the payment chain
	ErrInvalidFinanceTransition = errors.New("invalid finance status transition")
)

// FinanceService handles commission records and their payment chain
type FinanceService struct {
	financeRepo   *repository.FinanceRepository
	eventRepo     *repository.EventRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
}

// NewFinanceService creates a new FinanceService instance
func NewFinanceService(
	financeRepo *repository.FinanceRepository,
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *FinanceService {
	return &FinanceService{
		financeRepo:   financeRepo,
		eventRepo:     eventRepo,
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Create opens a new commission record in PENDING
func (s *FinanceService) Create(ctx context.Context, req *domain.CreateFinanceRequest) (*domain.FinanceRecordDTO, error) {
	record := &domain.FinanceRecord{
		EventID:       req.EventID,
		SalespersonID: req.SalespersonID,
		Amount:        req.Amount,
		Status:        domain.FinanceStatusPending,
		Observation:   req.Observation,
	}

	if err := s.financeRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create finance record: %w", err)
	}

	s.logger.Info("finance record created",
		zap.String("recordID", record.ID.String()),
		zap.String("salespersonID", req.SalespersonID.String()),
		zap.Float64("amount", req.Amount),
	)

	dto := mapper.ToFinanceDTO(record)
	return &dto, nil
}

// GetByID returns one finance record
func (s *FinanceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinanceRecordDTO, error) {
	record, err := s.financeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFinanceNotFound
		}
		return nil, fmt.Errorf("failed to get finance record: %w", err)
	}

	dto := mapper.ToFinanceDTO(record)
	return &dto, nil
}

// List returns a page of finance records
func (s *FinanceService) List(ctx context.Context, page, pageSize int, salespersonID *uuid.UUID, status domain.FinanceStatus) (*domain.PaginatedResponse, error) {
	records, total, err := s.financeRepo.List(ctx, page, pageSize, salespersonID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list finance records: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       mapper.ToFinanceDTOs(records),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update changes amount, observation and/or status. Status moves only
// forward along PENDING -> PAID -> RECEIVED. When a salesperson confirms
// receipt, every admin is notified.
func (s *FinanceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateFinanceRequest) (*domain.FinanceRecordDTO, error) {
	record, err := s.financeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFinanceNotFound
		}
		return nil, fmt.Errorf("failed to get finance record: %w", err)
	}

	becameReceived := false
	if req.Status != nil && *req.Status != record.Status {
		if !record.Status.CanTransitionTo(*req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidFinanceTransition, record.Status, *req.Status)
		}
		becameReceived = *req.Status == domain.FinanceStatusReceived
		record.Status = *req.Status
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Observation != nil {
		record.Observation = *req.Observation
	}

	if err := s.financeRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update finance record: %w", err)
	}

	if becameReceived {
		s.notifyReceived(ctx, record)
	}

	dto := mapper.ToFinanceDTO(record)
	return &dto, nil
}

// notifyReceived tells every admin that a commission was confirmed received
func (s *FinanceService) notifyReceived(ctx context.Context, record *domain.FinanceRecord) {
	salesName := "A salesperson"
	if user, err := s.userRepo.GetByID(ctx, record.SalespersonID); err == nil {
		salesName = user.Name
	}
	eventName := "an event"
	if event, err := s.eventRepo.GetByID(ctx, record.EventID); err == nil {
		eventName = event.Name
	}

	s.notifications.NotifyAdmins(ctx,
		fmt.Sprintf("%s confirmed receipt of the commission for %s.", salesName, eventName))
}

// Delete removes a finance record
func (s *FinanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.financeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFinanceNotFound
		}
		return fmt.Errorf("failed to get finance record: %w", err)
	}

	if err := s.financeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete finance record: %w", err)
	}

	s.logger.Info("finance record deleted", zap.String("recordID", id.String()))
	return nil
}
