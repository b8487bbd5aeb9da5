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

// ErrAcademyNotFound is returned when an academy is not found
var ErrAcademyNotFound = errors.New("academy not found")

// AcademyService handles business logic for the academy registry
type AcademyService struct {
	academyRepo *repository.AcademyRepository
	logger      *zap.Logger
}

// NewAcademyService creates a new AcademyService instance
func NewAcademyService(academyRepo *repository.AcademyRepository, logger *zap.Logger) *AcademyService {
	return &AcademyService{
		academyRepo: academyRepo,
		logger:      logger,
	}
}

// Create registers a new academy
func (s *AcademyService) Create(ctx context.Context, req *domain.CreateAcademyRequest) (*domain.AcademyDTO, error) {
	academy := &domain.Academy{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Responsible: req.Responsible,
		Phone:       req.Phone,
	}

	if err := s.academyRepo.Create(ctx, academy); err != nil {
		return nil, fmt.Errorf("failed to create academy: %w", err)
	}

	s.logger.Info("academy created",
		zap.String("academyID", academy.ID.String()),
		zap.String("name", academy.Name),
	)

	dto := mapper.ToAcademyDTO(academy)
	return &dto, nil
}

// GetByID returns one academy
func (s *AcademyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AcademyDTO, error) {
	academy, err := s.academyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademyNotFound
		}
		return nil, fmt.Errorf("failed to get academy: %w", err)
	}

	dto := mapper.ToAcademyDTO(academy)
	return &dto, nil
}

// List returns a page of academies, optionally filtered by a name/city search
func (s *AcademyService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	academies, total, err := s.academyRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list academies: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       mapper.ToAcademyDTOs(academies),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update rewrites an academy's mutable fields. The ID never changes.
func (s *AcademyService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAcademyRequest) (*domain.AcademyDTO, error) {
	academy, err := s.academyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademyNotFound
		}
		return nil, fmt.Errorf("failed to get academy: %w", err)
	}

	academy.Name = req.Name
	academy.Address = req.Address
	academy.City = req.City
	academy.State = req.State
	academy.Responsible = req.Responsible
	academy.Phone = req.Phone

	if err := s.academyRepo.Update(ctx, academy); err != nil {
		return nil, fmt.Errorf("failed to update academy: %w", err)
	}

	dto := mapper.ToAcademyDTO(academy)
	return &dto, nil
}

// Delete removes an academy from the registry
func (s *AcademyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.academyRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademyNotFound
		}
		return fmt.Errorf("failed to get academy: %w", err)
	}

	if err := s.academyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete academy: %w", err)
	}

	s.logger.Info("academy deleted", zap.String("academyID", id.String()))
	return nil
}
