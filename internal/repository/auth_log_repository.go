package repository

import (
	"context"

	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type AuthLogRepository struct {
	db *gorm.DB
}

func NewAuthLogRepository(db *gorm.DB) *AuthLogRepository {
	return &AuthLogRepository{db: db}
}

func (r *AuthLogRepository) Create(ctx context.Context, entry *domain.AuthLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuthLogRepository) ListByEmail(ctx context.Context, email string, limit int) ([]domain.AuthLog, error) {
	var entries []domain.AuthLog
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
