package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/mapper"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrVisitNotFound is returned when a visit is not found
	ErrVisitNotFound = errors.New("visit not found")

	// ErrVisitAlreadyFinalized is returned when cancelling a completed visit
	ErrVisitAlreadyFinalized = errors.New("visit has already been finalized")

	// ErrVisitIncomplete is returned when finalizing without notes or temperature
	ErrVisitIncomplete = errors.New("visit requires notes and temperature before completion")
)

// voucherFailureMark prefixes the visit summary when the voucher batch
// could not be persisted after the visit itself was committed
const voucherFailureMark = "[SYSTEM ERROR] Vouchers were not saved, contact support. "

// FinalizeResult carries the committed visit and, when vouchers were
// issued, the shareable handoff link
type FinalizeResult struct {
	Visit domain.VisitDTO        `json:"visit"`
	Link  *domain.VoucherLinkDTO `json:"link,omitempty"`
}

// VisitService drives the visit lifecycle from draft to completion
type VisitService struct {
	visitRepo     *repository.VisitRepository
	voucherRepo   *repository.VoucherRepository
	academyRepo   *repository.AcademyRepository
	userRepo      *repository.UserRepository
	vouchers      *VoucherService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewVisitService creates a new VisitService instance
func NewVisitService(
	visitRepo *repository.VisitRepository,
	voucherRepo *repository.VoucherRepository,
	academyRepo *repository.AcademyRepository,
	userRepo *repository.UserRepository,
	vouchers *VoucherService,
	notifications *NotificationService,
	logger *zap.Logger,
) *VisitService {
	return &VisitService{
		visitRepo:     visitRepo,
		voucherRepo:   voucherRepo,
		academyRepo:   academyRepo,
		userRepo:      userRepo,
		vouchers:      vouchers,
		notifications: notifications,
		logger:        logger,
	}
}

// Start opens a draft visit for an event/academy pair. Calling it again
// for the same pair converges on the existing row.
func (s *VisitService) Start(ctx context.Context, salespersonID uuid.UUID, req *domain.StartVisitRequest) (*domain.VisitDTO, error) {
	now := time.Now().UTC()
	visit := &domain.Visit{
		EventID:       req.EventID,
		AcademyID:     req.AcademyID,
		SalespersonID: salespersonID,
		Status:        domain.VisitStatusPending,
		StartedAt:     &now,
	}

	if err := s.Upsert(ctx, visit); err != nil {
		return nil, err
	}

	s.logger.Info("visit started",
		zap.String("visitID", visit.ID.String()),
		zap.String("eventID", req.EventID.String()),
		zap.String("academyID", req.AcademyID.String()),
	)

	dto := mapper.ToVisitDTO(visit)
	return &dto, nil
}

// Upsert persists a visit keyed by its (event, academy) natural key.
// A visit with an ID is updated in place; one without is inserted. When a
// concurrent insert for the same pair wins the race, the unique index
// rejects ours; the existing row is then re-resolved by natural key and
// the write is retried exactly once as an update. No retry loop.
func (s *VisitService) Upsert(ctx context.Context, visit *domain.Visit) error {
	if visit.ID != uuid.Nil {
		if err := s.visitRepo.Update(ctx, visit); err != nil {
			return fmt.Errorf("failed to update visit: %w", err)
		}
		return nil
	}

	err := s.visitRepo.Create(ctx, visit)
	if err == nil {
		return nil
	}
	if !isDuplicateKeyError(err) {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	existing, findErr := s.visitRepo.FindByEventAndAcademy(ctx, visit.EventID, visit.AcademyID)
	if findErr != nil {
		return fmt.Errorf("failed to resolve visit after duplicate key: %w", findErr)
	}

	s.logger.Info("visit insert lost race, retrying as update",
		zap.String("visitID", existing.ID.String()),
		zap.String("eventID", visit.EventID.String()),
		zap.String("academyID", visit.AcademyID.String()),
	)

	visit.ID = existing.ID
	visit.CreatedAt = existing.CreatedAt
	if err := s.visitRepo.Update(ctx, visit); err != nil {
		return fmt.Errorf("failed to update visit after duplicate key: %w", err)
	}
	return nil
}

// Finalize completes a visit. The visit write commits first; the voucher
// batch follows as a separate write. A voucher failure never rolls the
// visit back: the committed row is annotated with a visible error marker
// in its summary instead. Admins are notified only when this call is the
// one that moves the visit from PENDING to VISITED.
func (s *VisitService) Finalize(ctx context.Context, salespersonID uuid.UUID, req *domain.FinalizeVisitRequest) (*FinalizeResult, error) {
	if strings.TrimSpace(req.Notes) == "" || !req.Temperature.IsValid() {
		return nil, ErrVisitIncomplete
	}

	wasPending := true
	existing, err := s.visitRepo.FindByEventAndAcademy(ctx, req.EventID, req.AcademyID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve visit: %w", err)
	}
	if existing != nil {
		wasPending = existing.Status == domain.VisitStatusPending
	}

	codes := s.vouchers.GenerateCodes(req.VoucherCount)
	now := time.Now().UTC()
	temperature := req.Temperature

	visit := &domain.Visit{
		EventID:           req.EventID,
		AcademyID:         req.AcademyID,
		SalespersonID:     salespersonID,
		Status:            domain.VisitStatusVisited,
		FinishedAt:        &now,
		Notes:             req.Notes,
		Summary:           req.Summary,
		Temperature:       &temperature,
		ContactPerson:     req.ContactPerson,
		VouchersGenerated: codes,
		LeftBanner:        req.LeftBanner,
		LeftFlyers:        req.LeftFlyers,
	}
	if existing != nil {
		visit.ID = existing.ID
		visit.CreatedAt = existing.CreatedAt
		visit.StartedAt = existing.StartedAt
		visit.SalespersonID = existing.SalespersonID
	}

	if err := s.Upsert(ctx, visit); err != nil {
		return nil, err
	}

	if len(codes) > 0 {
		vouchers := make([]domain.Voucher, len(codes))
		for i, code := range codes {
			vouchers[i] = domain.Voucher{
				Code:      code,
				EventID:   req.EventID,
				AcademyID: req.AcademyID,
				VisitID:   visit.ID,
			}
		}
		if err := s.voucherRepo.CreateBatch(ctx, vouchers); err != nil {
			s.logger.Error("voucher batch failed after visit commit, annotating summary",
				zap.String("visitID", visit.ID.String()),
				zap.Error(err),
			)
			annotated := voucherFailureMark + visit.Summary
			if updErr := s.visitRepo.UpdateSummary(ctx, visit.ID, annotated); updErr != nil {
				s.logger.Error("failed to annotate visit summary", zap.Error(updErr))
			} else {
				visit.Summary = annotated
			}
			visit.VouchersGenerated = nil
			codes = nil
		}
	}

	if wasPending {
		s.notifyVisitCompleted(ctx, visit)
	}

	result := &FinalizeResult{Visit: mapper.ToVisitDTO(visit)}
	if len(codes) > 0 {
		academyName := req.AcademyID.String()
		if academy, err := s.academyRepo.GetByID(ctx, req.AcademyID); err == nil {
			academyName = academy.Name
		}
		link := s.vouchers.LinkFor(academyName, codes, now)
		result.Link = &link
	}
	return result, nil
}

// notifyVisitCompleted fans the completion out to admins, best-effort
func (s *VisitService) notifyVisitCompleted(ctx context.Context, visit *domain.Visit) {
	salesName := "A salesperson"
	if user, err := s.userRepo.GetByID(ctx, visit.SalespersonID); err == nil {
		salesName = user.Name
	}
	academyName := "an academy"
	if academy, err := s.academyRepo.GetByID(ctx, visit.AcademyID); err == nil {
		academyName = academy.Name
	}

	s.notifications.NotifyAdmins(ctx,
		fmt.Sprintf("%s completed a visit to %s.", salesName, academyName))
}

// Cancel discards a draft visit. Completed visits cannot be cancelled.
func (s *VisitService) Cancel(ctx context.Context, eventID, academyID uuid.UUID) error {
	visit, err := s.visitRepo.FindByEventAndAcademy(ctx, eventID, academyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisitNotFound
		}
		return fmt.Errorf("failed to resolve visit: %w", err)
	}

	if visit.Status == domain.VisitStatusVisited {
		return ErrVisitAlreadyFinalized
	}

	if err := s.visitRepo.DeleteByEventAndAcademy(ctx, eventID, academyID); err != nil {
		return fmt.Errorf("failed to cancel visit: %w", err)
	}

	s.logger.Info("visit cancelled",
		zap.String("eventID", eventID.String()),
		zap.String("academyID", academyID.String()),
	)
	return nil
}

// GetByNaturalKey resolves a visit by its (event, academy) pair
func (s *VisitService) GetByNaturalKey(ctx context.Context, eventID, academyID uuid.UUID) (*domain.VisitDTO, error) {
	visit, err := s.visitRepo.FindByEventAndAcademy(ctx, eventID, academyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("failed to resolve visit: %w", err)
	}

	dto := mapper.ToVisitDTO(visit)
	return &dto, nil
}

// ListByEvent returns every visit of an event
func (s *VisitService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.VisitDTO, error) {
	visits, err := s.visitRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return mapper.ToVisitDTOs(visits), nil
}

// ListBySalesperson returns every visit recorded by a salesperson
func (s *VisitService) ListBySalesperson(ctx context.Context, salespersonID uuid.UUID) ([]domain.VisitDTO, error) {
	visits, err := s.visitRepo.ListBySalesperson(ctx, salespersonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return mapper.ToVisitDTOs(visits), nil
}

// isDuplicateKeyError detects a unique-constraint violation across the
// postgres and sqlite drivers
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
