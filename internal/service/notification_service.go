package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/mapper"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettingAdminNotifications is the global notification kill switch.
// It gates every notification write, not just the admin fan-out.
// Absent means enabled.
const SettingAdminNotifications = "admin_notifications_enabled"

// ErrNotificationNotFound is returned when a notification is not found
var ErrNotificationNotFound = errors.New("notification not found")

// ErrNotificationNotOwned is returned when trying to access a notification owned by another user
var ErrNotificationNotOwned = errors.New("notification does not belong to current user")

// NotificationService handles business logic for notifications
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	settingRepo      *repository.SettingRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	settingRepo *repository.SettingRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		settingRepo:      settingRepo,
		logger:           logger,
	}
}

// Notify persists a notification for one user. The global setting must
// be explicitly false to suppress it; a missing row or a failed read
// leaves notifications on. Delivery is best-effort: a persistence
// failure is logged and swallowed so the triggering operation never
// fails because of it.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, message string) {
	if !s.notificationsEnabled(ctx) {
		s.logger.Debug("notifications disabled, skipping",
			zap.String("userID", userID.String()),
		)
		return
	}

	notification := &domain.Notification{
		UserID:  userID,
		Message: message,
		Read:    false,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("userID", userID.String()),
			zap.Error(err),
		)
	}
}

// NotifyAdmins fans a message out to every active admin, one row per
// admin. Checks the kill switch up front so a disabled system never
// lists admins.
func (s *NotificationService) NotifyAdmins(ctx context.Context, message string) {
	if !s.notificationsEnabled(ctx) {
		s.logger.Debug("notifications disabled, skipping fan-out")
		return
	}

	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		s.logger.Warn("failed to list admins for notification fan-out", zap.Error(err))
		return
	}

	for _, admin := range admins {
		s.Notify(ctx, admin.ID, message)
	}
}

// notificationsEnabled reads the gate setting, failing open
func (s *NotificationService) notificationsEnabled(ctx context.Context) bool {
	setting, err := s.settingRepo.Get(ctx, SettingAdminNotifications)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failed to read notification setting, treating as enabled", zap.Error(err))
		}
		return true
	}

	var enabled bool
	if err := json.Unmarshal([]byte(setting.Value), &enabled); err != nil {
		s.logger.Warn("unparseable notification setting, treating as enabled",
			zap.String("value", setting.Value),
		)
		return true
	}
	return enabled
}

// ListForUser returns a page of the user's notifications
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int, unreadOnly bool) (*domain.PaginatedResponse, error) {
	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       mapper.ToNotificationDTOs(notifications),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// MarkRead marks a single notification as read. Read never goes back to unread.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != userID {
		return ErrNotificationNotOwned
	}

	if notification.Read {
		return nil
	}

	if err := s.notificationRepo.MarkAsRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

// CountUnread returns the user's unread notification count
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
