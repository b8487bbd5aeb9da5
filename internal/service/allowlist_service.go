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
	// ErrAllowlistEntryNotFound is returned when an allowlist entry is not found
	ErrAllowlistEntryNotFound = errors.New("allowlist entry not found")

	// ErrAllowlistEntryExists is returned when adding an email already allowlisted
	ErrAllowlistEntryExists = errors.New("email is already on the allowlist")
)

// AllowlistService manages which emails may request access
type AllowlistService struct {
	allowlistRepo *repository.AllowlistRepository
	logger        *zap.Logger
}

// NewAllowlistService creates a new AllowlistService instance
func NewAllowlistService(allowlistRepo *repository.AllowlistRepository, logger *zap.Logger) *AllowlistService {
	return &AllowlistService{
		allowlistRepo: allowlistRepo,
		logger:        logger,
	}
}

// List returns every allowlist entry
func (s *AllowlistService) List(ctx context.Context) ([]domain.AllowlistEntryDTO, error) {
	entries, err := s.allowlistRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowlist: %w", err)
	}
	return mapper.ToAllowlistDTOs(entries), nil
}

// Add puts an email on the allowlist with a role for future activation
func (s *AllowlistService) Add(ctx context.Context, req *domain.AddAllowlistRequest) (*domain.AllowlistEntryDTO, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.allowlistRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrAllowlistEntryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check allowlist: %w", err)
	}

	entry := &domain.AllowlistEntry{
		Email:  email,
		Role:   req.Role,
		Status: domain.AllowlistActive,
	}
	if err := s.allowlistRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create allowlist entry: %w", err)
	}

	s.logger.Info("allowlist entry added",
		zap.String("email", email),
		zap.String("role", string(req.Role)),
	)

	dto := mapper.ToAllowlistDTO(entry)
	return &dto, nil
}

// Deactivate disables an entry without deleting it
func (s *AllowlistService) Deactivate(ctx context.Context, id uuid.UUID) error {
	entries, err := s.allowlistRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list allowlist: %w", err)
	}

	for i := range entries {
		if entries[i].ID == id {
			entries[i].Status = domain.AllowlistInactive
			if err := s.allowlistRepo.Update(ctx, &entries[i]); err != nil {
				return fmt.Errorf("failed to update allowlist entry: %w", err)
			}
			return nil
		}
	}
	return ErrAllowlistEntryNotFound
}

// Remove deletes an allowlist entry
func (s *AllowlistService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.allowlistRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete allowlist entry: %w", err)
	}
	return nil
}
