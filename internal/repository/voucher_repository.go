package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type VoucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) *VoucherRepository {
	return &VoucherRepository{db: db}
}

// CreateBatch inserts all vouchers in a single statement. The whole batch
// fails together so a visit never ends up with a partial code set.
func (r *VoucherRepository) CreateBatch(ctx context.Context, vouchers []domain.Voucher) error {
	if len(vouchers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&vouchers).Error
}

func (r *VoucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	var voucher domain.Voucher
	err := r.db.WithContext(ctx).First(&voucher, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *VoucherRepository) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]domain.Voucher, error) {
	var vouchers []domain.Voucher
	err := r.db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Order("created_at ASC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *VoucherRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Voucher, error) {
	var vouchers []domain.Voucher
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *VoucherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Voucher{}).Count(&count).Error
	return count, err
}
