package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type AllowlistRepository struct {
	db *gorm.DB
}

func NewAllowlistRepository(db *gorm.DB) *AllowlistRepository {
	return &AllowlistRepository{db: db}
}

func (r *AllowlistRepository) Create(ctx context.Context, entry *domain.AllowlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AllowlistRepository) GetByEmail(ctx context.Context, email string) (*domain.AllowlistEntry, error) {
	var entry domain.AllowlistEntry
	err := r.db.WithContext(ctx).First(&entry, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *AllowlistRepository) List(ctx context.Context) ([]domain.AllowlistEntry, error) {
	var entries []domain.AllowlistEntry
	err := r.db.WithContext(ctx).Order("email ASC").Find(&entries).Error
	return entries, err
}

func (r *AllowlistRepository) Update(ctx context.Context, entry *domain.AllowlistEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *AllowlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.AllowlistEntry{}, "id = ?", id).Error
}
