package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type FinanceRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

func (r *FinanceRepository) Create(ctx context.Context, record *domain.FinanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *FinanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinanceRecord, error) {
	var record domain.FinanceRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *FinanceRepository) List(ctx context.Context, page, pageSize int, salespersonID *uuid.UUID, status domain.FinanceStatus) ([]domain.FinanceRecord, int64, error) {
	var records []domain.FinanceRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.FinanceRecord{})

	if salespersonID != nil {
		query = query.Where("salesperson_id = ?", *salespersonID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&records).Error

	return records, total, err
}

func (r *FinanceRepository) Update(ctx context.Context, record *domain.FinanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *FinanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.FinanceRecord{}, "id = ?", id).Error
}

// TotalsByStatus sums commission amounts grouped by status
func (r *FinanceRepository) TotalsByStatus(ctx context.Context) (map[domain.FinanceStatus]float64, error) {
	type row struct {
		Status domain.FinanceStatus
		Total  float64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.FinanceRecord{}).
		Select("status, coalesce(sum(amount), 0) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[domain.FinanceStatus]float64, len(rows))
	for _, r := range rows {
		result[r.Status] = r.Total
	}
	return result, nil
}
