package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context, page, pageSize int, status domain.EventStatus, salespersonID *uuid.UUID) ([]domain.Event, int64, error) {
	var events []domain.Event
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Event{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if salespersonID != nil {
		query = query.Where("salesperson_id = ?", *salespersonID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("start_date DESC").Find(&events).Error

	return events, total, err
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Event{}, "id = ?", id).Error
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Event{}).Count(&count).Error
	return count, err
}

// ListAcademyIDs returns the academy IDs currently linked to the event.
// Only active junction rows count as membership.
func (r *EventRepository) ListAcademyIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.EventAcademy{}).
		Where("event_id = ? AND is_active = ?", eventID, true).
		Pluck("academy_id", &ids).Error
	return ids, err
}

// LinkAcademy upserts a junction row with is_active=true. Relinking a
// previously unlinked academy reactivates the existing row.
func (r *EventRepository) LinkAcademy(ctx context.Context, eventID, academyID uuid.UUID) error {
	row := domain.EventAcademy{
		EventID:   eventID,
		AcademyID: academyID,
		IsActive:  true,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "academy_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true, "updated_at": time.Now().UTC()}),
		}).
		Create(&row).Error
}

// UnlinkAcademy soft-deletes a junction row so visit history survives
func (r *EventRepository) UnlinkAcademy(ctx context.Context, eventID, academyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.EventAcademy{}).
		Where("event_id = ? AND academy_id = ?", eventID, academyID).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now().UTC()}).Error
}
