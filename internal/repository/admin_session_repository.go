package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type AdminSessionRepository struct {
	db *gorm.DB
}

func NewAdminSessionRepository(db *gorm.DB) *AdminSessionRepository {
	return &AdminSessionRepository{db: db}
}

func (r *AdminSessionRepository) Create(ctx context.Context, session *domain.AdminSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindActive returns the newest live session for a user, or gorm.ErrRecordNotFound
func (r *AdminSessionRepository) FindActive(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.AdminSession, error) {
	var session domain.AdminSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Order("elevated_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Revoke closes every live session for a user
func (r *AdminSessionRepository) Revoke(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.AdminSession{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Update("revoked_at", now)
	return result.RowsAffected, result.Error
}

// CloseExpired stamps revoked_at on sessions that outlived their expiry.
// Run periodically by the scheduler.
func (r *AdminSessionRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.AdminSession{}).
		Where("revoked_at IS NULL AND expires_at <= ?", now).
		Update("revoked_at", now)
	return result.RowsAffected, result.Error
}
