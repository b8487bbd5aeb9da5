package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
)

// AuditService records admin actions. Writes are fire-and-forget:
// attempted once, failure logged, never surfaced to the caller.
type AuditService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// LogAdminAction writes one audit trail entry, best-effort
func (s *AuditService) LogAdminAction(ctx context.Context, userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details, ip, userAgent string) {
	entry := &domain.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    ip,
		UserAgent:    userAgent,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// List returns a page of the audit trail
func (s *AuditService) List(ctx context.Context, page, pageSize int, userID *uuid.UUID, action string) ([]domain.AuditLog, int64, error) {
	entries, total, err := s.auditRepo.List(ctx, page, pageSize, userID, action)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, total, nil
}
