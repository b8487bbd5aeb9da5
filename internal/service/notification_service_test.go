package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/repository"
	"github.com/mudita/visita-api/internal/service"
	"github.com/mudita/visita-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createNotificationService(db *gorm.DB) *service.NotificationService {
	logger := zap.NewNop()
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	return service.NewNotificationService(notificationRepo, userRepo, settingRepo, logger)
}

func adminNotificationCount(t *testing.T, db *gorm.DB, adminID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ?", adminID).Count(&n).Error)
	return n
}

func TestNotificationService_NotifyAdmins_Gate(t *testing.T) {
	ctx := context.Background()

	t.Run("absent setting fails open", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db)
		admin := testutil.CreateTestUser(t, db, "Admin", domain.RoleAdmin)

		svc.NotifyAdmins(ctx, "something happened")
		assert.Equal(t, int64(1), adminNotificationCount(t, db, admin.ID))
	})

	t.Run("explicit false suppresses fan-out", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db)
		admin := testutil.CreateTestUser(t, db, "Admin", domain.RoleAdmin)
		testutil.SetSettingValue(t, db, service.SettingAdminNotifications, "false")

		svc.NotifyAdmins(ctx, "something happened")
		assert.Equal(t, int64(0), adminNotificationCount(t, db, admin.ID))
	})

	t.Run("explicit false suppresses direct notifications too", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db)
		sales := testutil.CreateTestUser(t, db, "Sales", domain.RoleSales)
		testutil.SetSettingValue(t, db, service.SettingAdminNotifications, "false")

		svc.Notify(ctx, sales.ID, "you were assigned an event")
		assert.Equal(t, int64(0), adminNotificationCount(t, db, sales.ID))
	})

	t.Run("explicit true notifies", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db)
		admin := testutil.CreateTestUser(t, db, "Admin", domain.RoleAdmin)
		testutil.SetSettingValue(t, db, service.SettingAdminNotifications, "true")

		svc.NotifyAdmins(ctx, "something happened")
		assert.Equal(t, int64(1), adminNotificationCount(t, db, admin.ID))
	})

	t.Run("unparseable setting fails open", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db)
		admin := testutil.CreateTestUser(t, db, "Admin", domain.RoleAdmin)
		testutil.SetSettingValue(t, db, service.SettingAdminNotifications, "not-json")

		svc.NotifyAdmins(ctx, "something happened")
		assert.Equal(t, int64(1), adminNotificationCount(t, db, admin.ID))
	})

	t.Run("fans out one row per active admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db)
		a1 := testutil.CreateTestUser(t, db, "Admin One", domain.RoleAdmin)
		a2 := testutil.CreateTestUser(t, db, "Admin Two", domain.RoleAdmin)
		sales := testutil.CreateTestUser(t, db, "Sales", domain.RoleSales)

		inactive := testutil.CreateTestUser(t, db, "Gone Admin", domain.RoleAdmin)
		require.NoError(t, db.Model(&domain.User{}).
			Where("id = ?", inactive.ID).Update("is_active", false).Error)

		svc.NotifyAdmins(ctx, "something happened")

		assert.Equal(t, int64(1), adminNotificationCount(t, db, a1.ID))
		assert.Equal(t, int64(1), adminNotificationCount(t, db, a2.ID))
		assert.Equal(t, int64(0), adminNotificationCount(t, db, sales.ID))
		assert.Equal(t, int64(0), adminNotificationCount(t, db, inactive.ID))
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createNotificationService(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "Owner", domain.RoleSales)
	other := testutil.CreateTestUser(t, db, "Other", domain.RoleSales)

	svc.Notify(ctx, owner.ID, "hello")
	var notification domain.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).First(&notification).Error)

	t.Run("not found", func(t *testing.T) {
		err := svc.MarkRead(ctx, owner.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrNotificationNotFound)
	})

	t.Run("ownership enforced", func(t *testing.T) {
		err := svc.MarkRead(ctx, other.ID, notification.ID)
		assert.ErrorIs(t, err, service.ErrNotificationNotOwned)
	})

	t.Run("marks read and stays read", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(ctx, owner.ID, notification.ID))

		var stored domain.Notification
		require.NoError(t, db.First(&stored, "id = ?", notification.ID).Error)
		assert.True(t, stored.Read)
		assert.NotNil(t, stored.ReadAt)
		firstReadAt := stored.ReadAt

		// Marking again is a no-op
		require.NoError(t, svc.MarkRead(ctx, owner.ID, notification.ID))
		require.NoError(t, db.First(&stored, "id = ?", notification.ID).Error)
		assert.Equal(t, firstReadAt.Unix(), stored.ReadAt.Unix())
	})
}

func TestNotificationService_ListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createNotificationService(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "Reader", domain.RoleSales)
	for i := 0; i < 5; i++ {
		svc.Notify(ctx, user.ID, "message")
	}

	count, err := svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	page, err := svc.ListForUser(ctx, user.ID, 1, 3, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	require.NoError(t, svc.MarkAllRead(ctx, user.ID))

	count, err = svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	unread, err := svc.ListForUser(ctx, user.ID, 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread.Total)
}
