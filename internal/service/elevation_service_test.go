package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/repository"
	"github.com/mudita/visita-api/internal/service"
	"github.com/mudita/visita-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createElevationService(db *gorm.DB) *service.ElevationService {
	logger := zap.NewNop()
	cfg := &config.ElevationConfig{
		DefaultDurationMinutes: 30,
		MaxDurationMinutes:     240,
		SweepIntervalMinutes:   5,
	}
	auditService := service.NewAuditService(repository.NewAuditLogRepository(db), logger)
	return service.NewElevationService(
		repository.NewAdminSessionRepository(db),
		repository.NewUserRepository(db),
		auditService,
		cfg,
		logger,
	)
}

func TestElevationService_RequestAndCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createElevationService(db)
	ctx := context.Background()

	admin := createCredentialedUser(t, db, "elevated-admin@example.com", "admin-password", true)

	t.Run("not elevated initially", func(t *testing.T) {
		status, err := svc.Check(ctx, admin.ID)
		require.NoError(t, err)
		assert.False(t, status.Elevated)
	})

	t.Run("wrong password is denied and audited", func(t *testing.T) {
		_, err := svc.Request(ctx, admin.ID, &domain.RequestElevationRequest{Password: "wrong"}, "10.0.0.1", "test-agent")
		assert.ErrorIs(t, err, service.ErrElevationPasswordMismatch)

		var denied int64
		require.NoError(t, db.Model(&domain.AuditLog{}).
			Where("user_id = ? AND action = ?", admin.ID, "elevation_denied").Count(&denied).Error)
		assert.Equal(t, int64(1), denied)
	})

	t.Run("grants and reports a session", func(t *testing.T) {
		result, err := svc.Request(ctx, admin.ID, &domain.RequestElevationRequest{
			Password: "admin-password",
			Reason:   "user cleanup",
		}, "10.0.0.1", "test-agent")
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.ExpiresAt)
		assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), *result.ExpiresAt, 5*time.Second)

		status, err := svc.Check(ctx, admin.ID)
		require.NoError(t, err)
		assert.True(t, status.Elevated)
		assert.Equal(t, "user cleanup", status.Reason)
		assert.Greater(t, status.TimeRemainingSeconds, 0)

		var granted int64
		require.NoError(t, db.Model(&domain.AuditLog{}).
			Where("user_id = ? AND action = ?", admin.ID, "elevation_granted").Count(&granted).Error)
		assert.Equal(t, int64(1), granted)
	})

	t.Run("requested duration is clamped to the maximum", func(t *testing.T) {
		result, err := svc.Request(ctx, admin.ID, &domain.RequestElevationRequest{
			Password:        "admin-password",
			DurationMinutes: 100000,
		}, "10.0.0.1", "test-agent")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC().Add(240*time.Minute), *result.ExpiresAt, 5*time.Second)
	})

	t.Run("a new grant replaces the previous session", func(t *testing.T) {
		var live int64
		require.NoError(t, db.Model(&domain.AdminSession{}).
			Where("user_id = ? AND revoked_at IS NULL", admin.ID).Count(&live).Error)
		assert.Equal(t, int64(1), live)
	})
}

func TestElevationService_Revoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createElevationService(db)
	ctx := context.Background()

	admin := createCredentialedUser(t, db, "revoked-admin@example.com", "admin-password", true)

	t.Run("revoking without a session is a no-op", func(t *testing.T) {
		result, err := svc.Revoke(ctx, admin.ID, "manual", "10.0.0.1", "test-agent")
		require.NoError(t, err)
		assert.True(t, result.Success)

		var audited int64
		require.NoError(t, db.Model(&domain.AuditLog{}).
			Where("user_id = ? AND action = ?", admin.ID, "elevation_revoked").Count(&audited).Error)
		assert.Equal(t, int64(0), audited)
	})

	t.Run("revoking closes the live session", func(t *testing.T) {
		_, err := svc.Request(ctx, admin.ID, &domain.RequestElevationRequest{Password: "admin-password"}, "10.0.0.1", "test-agent")
		require.NoError(t, err)

		_, err = svc.Revoke(ctx, admin.ID, "manual", "10.0.0.1", "test-agent")
		require.NoError(t, err)

		status, err := svc.Check(ctx, admin.ID)
		require.NoError(t, err)
		assert.False(t, status.Elevated)

		var audited int64
		require.NoError(t, db.Model(&domain.AuditLog{}).
			Where("user_id = ? AND action = ?", admin.ID, "elevation_revoked").Count(&audited).Error)
		assert.Equal(t, int64(1), audited)
	})
}

func TestElevationService_SweepExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createElevationService(db)
	ctx := context.Background()

	admin := createCredentialedUser(t, db, "swept-admin@example.com", "admin-password", true)

	past := time.Now().UTC().Add(-time.Hour)
	expired := &domain.AdminSession{
		UserID:     admin.ID,
		ElevatedAt: past.Add(-30 * time.Minute),
		ExpiresAt:  past,
	}
	require.NoError(t, db.Create(expired).Error)

	require.NoError(t, svc.SweepExpired(ctx))

	var stored domain.AdminSession
	require.NoError(t, db.First(&stored, "id = ?", expired.ID).Error)
	assert.NotNil(t, stored.RevokedAt)

	status, err := svc.Check(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, status.Elevated)
}
