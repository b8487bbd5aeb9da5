package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) Create(ctx context.Context, visit *domain.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *VisitRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Visit, error) {
	var visit domain.Visit
	err := r.db.WithContext(ctx).First(&visit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// FindByEventAndAcademy resolves a visit by its natural key
func (r *VisitRepository) FindByEventAndAcademy(ctx context.Context, eventID, academyID uuid.UUID) (*domain.Visit, error) {
	var visit domain.Visit
	err := r.db.WithContext(ctx).
		First(&visit, "event_id = ? AND academy_id = ?", eventID, academyID).Error
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *VisitRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Visit, error) {
	var visits []domain.Visit
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("updated_at DESC").
		Find(&visits).Error
	return visits, err
}

func (r *VisitRepository) ListBySalesperson(ctx context.Context, salespersonID uuid.UUID) ([]domain.Visit, error) {
	var visits []domain.Visit
	err := r.db.WithContext(ctx).
		Where("salesperson_id = ?", salespersonID).
		Order("updated_at DESC").
		Find(&visits).Error
	return visits, err
}

func (r *VisitRepository) Update(ctx context.Context, visit *domain.Visit) error {
	return r.db.WithContext(ctx).Save(visit).Error
}

// UpdateSummary overwrites only the summary column of a committed visit
func (r *VisitRepository) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("id = ?", id).
		Update("summary", summary).Error
}

// DeleteByEventAndAcademy removes a visit draft by its natural key
func (r *VisitRepository) DeleteByEventAndAcademy(ctx context.Context, eventID, academyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Visit{}, "event_id = ? AND academy_id = ?", eventID, academyID).Error
}

func (r *VisitRepository) CountByStatus(ctx context.Context, status domain.VisitStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *VisitRepository) CountByTemperature(ctx context.Context) (map[domain.Temperature]int64, error) {
	type row struct {
		Temperature domain.Temperature
		Count       int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.Visit{}).
		Select("temperature, count(*) as count").
		Where("temperature IS NOT NULL").
		Group("temperature").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[domain.Temperature]int64, len(rows))
	for _, r := range rows {
		result[r.Temperature] = r.Count
	}
	return result, nil
}

func (r *VisitRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Visit{}).Count(&count).Error
	return count, err
}
