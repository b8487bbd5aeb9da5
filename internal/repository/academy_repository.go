package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type AcademyRepository struct {
	db *gorm.DB
}

func NewAcademyRepository(db *gorm.DB) *AcademyRepository {
	return &AcademyRepository{db: db}
}

func (r *AcademyRepository) Create(ctx context.Context, academy *domain.Academy) error {
	return r.db.WithContext(ctx).Create(academy).Error
}

func (r *AcademyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Academy, error) {
	var academy domain.Academy
	err := r.db.WithContext(ctx).First(&academy, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &academy, nil
}

func (r *AcademyRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Academy, int64, error) {
	var academies []domain.Academy
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Academy{})

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&academies).Error

	return academies, total, err
}

func (r *AcademyRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Academy, error) {
	var academies []domain.Academy
	if len(ids) == 0 {
		return academies, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&academies).Error
	return academies, err
}

func (r *AcademyRepository) Update(ctx context.Context, academy *domain.Academy) error {
	return r.db.WithContext(ctx).Save(academy).Error
}

func (r *AcademyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Academy{}, "id = ?", id).Error
}

func (r *AcademyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Academy{}).Count(&count).Error
	return count, err
}
