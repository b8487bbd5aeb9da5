package service

import (
	"context"
	"fmt"

	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
)

// ReportService aggregates dashboard counters. Queries only; rendering
// stays with the client.
type ReportService struct {
	academyRepo *repository.AcademyRepository
	eventRepo   *repository.EventRepository
	visitRepo   *repository.VisitRepository
	voucherRepo *repository.VoucherRepository
	financeRepo *repository.FinanceRepository
	logger      *zap.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(
	academyRepo *repository.AcademyRepository,
	eventRepo *repository.EventRepository,
	visitRepo *repository.VisitRepository,
	voucherRepo *repository.VoucherRepository,
	financeRepo *repository.FinanceRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		academyRepo: academyRepo,
		eventRepo:   eventRepo,
		visitRepo:   visitRepo,
		voucherRepo: voucherRepo,
		financeRepo: financeRepo,
		logger:      logger,
	}
}

// Summary builds the admin dashboard counters
func (s *ReportService) Summary(ctx context.Context) (*domain.ReportSummaryDTO, error) {
	academies, err := s.academyRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count academies: %w", err)
	}
	events, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	visits, err := s.visitRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}
	visited, err := s.visitRepo.CountByStatus(ctx, domain.VisitStatusVisited)
	if err != nil {
		return nil, fmt.Errorf("failed to count visited: %w", err)
	}
	pending, err := s.visitRepo.CountByStatus(ctx, domain.VisitStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending: %w", err)
	}
	vouchers, err := s.voucherRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count vouchers: %w", err)
	}
	byTemperature, err := s.visitRepo.CountByTemperature(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group visits by temperature: %w", err)
	}
	financeTotals, err := s.financeRepo.TotalsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total finance records: %w", err)
	}

	return &domain.ReportSummaryDTO{
		TotalAcademies:      academies,
		TotalEvents:         events,
		TotalVisits:         visits,
		VisitedCount:        visited,
		PendingCount:        pending,
		TotalVouchers:       vouchers,
		VisitsByTemperature: byTemperature,
		FinanceTotals:       financeTotals,
	}, nil
}
