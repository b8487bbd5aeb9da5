package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/mapper"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSettingNotFound is returned when a setting key does not exist
var ErrSettingNotFound = errors.New("setting not found")

// SettingService handles JSON-valued system settings
type SettingService struct {
	settingRepo *repository.SettingRepository
	logger      *zap.Logger
}

// NewSettingService creates a new SettingService instance
func NewSettingService(settingRepo *repository.SettingRepository, logger *zap.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// Get returns one setting with its decoded value
func (s *SettingService) Get(ctx context.Context, key string) (*domain.SettingDTO, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	dto := mapper.ToSettingDTO(setting)
	return &dto, nil
}

// List returns every setting
func (s *SettingService) List(ctx context.Context) ([]domain.SettingDTO, error) {
	settings, err := s.settingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return mapper.ToSettingDTOs(settings), nil
}

// Set upserts a setting, storing the value JSON-encoded
func (s *SettingService) Set(ctx context.Context, key string, value interface{}) (*domain.SettingDTO, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode setting value: %w", err)
	}

	if err := s.settingRepo.Set(ctx, key, string(encoded)); err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}

	s.logger.Info("setting updated", zap.String("key", key))

	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to reload setting: %w", err)
	}
	dto := mapper.ToSettingDTO(setting)
	return &dto, nil
}
