package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrElevationPasswordMismatch is returned when the password re-check fails
var ErrElevationPasswordMismatch = errors.New("password verification failed")

// ElevationService manages temporary admin privilege sessions. Expiry is
// enforced server-side: checks compare against expires_at, and a periodic
// sweep closes sessions that outlived it.
type ElevationService struct {
	sessionRepo *repository.AdminSessionRepository
	userRepo    *repository.UserRepository
	audit       *AuditService
	cfg         *config.ElevationConfig
	logger      *zap.Logger
}

// NewElevationService creates a new ElevationService instance
func NewElevationService(
	sessionRepo *repository.AdminSessionRepository,
	userRepo *repository.UserRepository,
	audit *AuditService,
	cfg *config.ElevationConfig,
	logger *zap.Logger,
) *ElevationService {
	return &ElevationService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		audit:       audit,
		cfg:         cfg,
		logger:      logger,
	}
}

// Check reports the caller's current elevation status
func (s *ElevationService) Check(ctx context.Context, userID uuid.UUID) (*domain.ElevationStatusDTO, error) {
	now := time.Now().UTC()

	session, err := s.sessionRepo.FindActive(ctx, userID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.ElevationStatusDTO{Elevated: false}, nil
		}
		return nil, fmt.Errorf("failed to check elevation: %w", err)
	}

	remaining := int(session.ExpiresAt.Sub(now).Seconds())
	return &domain.ElevationStatusDTO{
		SessionID:            session.ID.String(),
		Elevated:             true,
		ElevatedAt:           &session.ElevatedAt,
		ExpiresAt:            &session.ExpiresAt,
		Reason:               session.Reason,
		TimeRemainingSeconds: remaining,
	}, nil
}

// Request opens an elevation session after re-verifying the password.
// An existing live session is replaced by the new one.
func (s *ElevationService) Request(ctx context.Context, userID uuid.UUID, req *domain.RequestElevationRequest, ip, userAgent string) (*domain.ElevationResultDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.audit.LogAdminAction(ctx, userID, "elevation_denied", "admin_session", nil, "password mismatch", ip, userAgent)
		return nil, ErrElevationPasswordMismatch
	}

	now := time.Now().UTC()
	duration := s.cfg.DefaultDuration()
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}
	if max := time.Duration(s.cfg.MaxDurationMinutes) * time.Minute; duration > max {
		duration = max
	}

	if _, err := s.sessionRepo.Revoke(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("failed to close prior sessions: %w", err)
	}

	session := &domain.AdminSession{
		UserID:     userID,
		Reason:     req.Reason,
		IPAddress:  ip,
		UserAgent:  userAgent,
		ElevatedAt: now,
		ExpiresAt:  now.Add(duration),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create elevation session: %w", err)
	}

	s.audit.LogAdminAction(ctx, userID, "elevation_granted", "admin_session", &session.ID, req.Reason, ip, userAgent)
	s.logger.Info("elevation granted",
		zap.String("userID", userID.String()),
		zap.Time("expiresAt", session.ExpiresAt),
	)

	return &domain.ElevationResultDTO{
		Success:   true,
		Message:   "elevation granted",
		SessionID: session.ID.String(),
		ExpiresAt: &session.ExpiresAt,
	}, nil
}

// Revoke closes the caller's live elevation sessions
func (s *ElevationService) Revoke(ctx context.Context, userID uuid.UUID, reason, ip, userAgent string) (*domain.ElevationResultDTO, error) {
	now := time.Now().UTC()

	closed, err := s.sessionRepo.Revoke(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke elevation: %w", err)
	}

	if closed > 0 {
		s.audit.LogAdminAction(ctx, userID, "elevation_revoked", "admin_session", nil, reason, ip, userAgent)
	}

	return &domain.ElevationResultDTO{
		Success: true,
		Message: fmt.Sprintf("%d session(s) revoked", closed),
	}, nil
}

// SweepExpired closes sessions past their expiry. Called by the scheduler.
func (s *ElevationService) SweepExpired(ctx context.Context) error {
	now := time.Now().UTC()

	closed, err := s.sessionRepo.CloseExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to close expired sessions: %w", err)
	}

	if closed > 0 {
		s.logger.Info("expired elevation sessions closed", zap.Int64("count", closed))
	}
	return nil
}
