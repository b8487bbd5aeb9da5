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

func createFinanceService(db *gorm.DB) *service.FinanceService {
	logger := zap.NewNop()
	financeRepo := repository.NewFinanceRepository(db)
	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, settingRepo, logger)
	return service.NewFinanceService(financeRepo, eventRepo, userRepo, notificationService, logger)
}

func financeStatus(s domain.FinanceStatus) *domain.FinanceStatus { return &s }

func TestFinanceService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createFinanceService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Commission Event")
	sales := testutil.CreateTestUser(t, db, "Sales", domain.RoleSales)

	record, err := svc.Create(ctx, &domain.CreateFinanceRequest{
		EventID:       event.ID,
		SalespersonID: sales.ID,
		Amount:        350.50,
		Observation:   "first installment",
	})
	require.NoError(t, err)

	// New records always open in PENDING regardless of input
	assert.Equal(t, domain.FinanceStatusPending, record.Status)
	assert.Equal(t, 350.50, record.Amount)
}

func TestFinanceService_Update_Transitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createFinanceService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Transition Event")
	sales := testutil.CreateTestUser(t, db, "Sales", domain.RoleSales)
	admin := testutil.CreateTestUser(t, db, "Admin", domain.RoleAdmin)

	newRecord := func() uuid.UUID {
		record, err := svc.Create(ctx, &domain.CreateFinanceRequest{
			EventID:       event.ID,
			SalespersonID: sales.ID,
			Amount:        100,
		})
		require.NoError(t, err)
		return record.ID
	}

	t.Run("forward chain is allowed", func(t *testing.T) {
		id := newRecord()

		record, err := svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusPaid)})
		require.NoError(t, err)
		assert.Equal(t, domain.FinanceStatusPaid, record.Status)

		record, err = svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusReceived)})
		require.NoError(t, err)
		assert.Equal(t, domain.FinanceStatusReceived, record.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		id := newRecord()
		record, err := svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusPending)})
		require.NoError(t, err)
		assert.Equal(t, domain.FinanceStatusPending, record.Status)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		id := newRecord()
		_, err := svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusReceived)})
		assert.ErrorIs(t, err, service.ErrInvalidFinanceTransition)
	})

	t.Run("moving backwards is rejected", func(t *testing.T) {
		id := newRecord()
		_, err := svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusPaid)})
		require.NoError(t, err)

		_, err = svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusPending)})
		assert.ErrorIs(t, err, service.ErrInvalidFinanceTransition)
	})

	t.Run("receipt confirmation notifies admins", func(t *testing.T) {
		var before int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", admin.ID).Count(&before).Error)

		id := newRecord()
		_, err := svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusPaid)})
		require.NoError(t, err)

		var afterPaid int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", admin.ID).Count(&afterPaid).Error)
		assert.Equal(t, before, afterPaid)

		_, err = svc.Update(ctx, id, &domain.UpdateFinanceRequest{Status: financeStatus(domain.FinanceStatusReceived)})
		require.NoError(t, err)

		var afterReceived int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", admin.ID).Count(&afterReceived).Error)
		assert.Equal(t, before+1, afterReceived)
	})
}

func TestFinanceService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createFinanceService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "List Event")
	s1 := testutil.CreateTestUser(t, db, "Sales One", domain.RoleSales)
	s2 := testutil.CreateTestUser(t, db, "Sales Two", domain.RoleSales)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, &domain.CreateFinanceRequest{EventID: event.ID, SalespersonID: s1.ID, Amount: 50})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, &domain.CreateFinanceRequest{EventID: event.ID, SalespersonID: s2.ID, Amount: 75})
	require.NoError(t, err)

	page, err := svc.List(ctx, 1, 10, &s1.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = svc.List(ctx, 1, 10, nil, domain.FinanceStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
}

func TestFinanceService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createFinanceService(db)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		err := svc.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, service.ErrFinanceNotFound)
	})

	t.Run("deletes existing record", func(t *testing.T) {
		event := testutil.CreateTestEvent(t, db, "Delete Event")
		sales := testutil.CreateTestUser(t, db, "Sales", domain.RoleSales)
		record, err := svc.Create(ctx, &domain.CreateFinanceRequest{EventID: event.ID, SalespersonID: sales.ID, Amount: 10})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, record.ID))
		_, err = svc.GetByID(ctx, record.ID)
		assert.ErrorIs(t, err, service.ErrFinanceNotFound)
	})
}
