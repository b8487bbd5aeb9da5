package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
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

func createVisitService(db *gorm.DB) *service.VisitService {
	logger := zap.NewNop()
	visitRepo := repository.NewVisitRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	academyRepo := repository.NewAcademyRepository(db)
	userRepo := repository.NewUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	linkCfg := &config.PublicLinkConfig{BaseURL: "https://visita.example.com", TTLHours: 3}
	voucherService := service.NewVoucherService(voucherRepo, linkCfg, logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, settingRepo, logger)

	return service.NewVisitService(visitRepo, voucherRepo, academyRepo, userRepo, voucherService, notificationService, logger)
}

func TestVisitService_Start(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createVisitService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Campinas Open")
	academy := testutil.CreateTestAcademy(t, db, "Gracie Barra Campinas")
	sales := testutil.CreateTestUser(t, db, "Joana", domain.RoleSales)

	visit, err := svc.Start(ctx, sales.ID, &domain.StartVisitRequest{
		EventID:   event.ID,
		AcademyID: academy.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisitStatusPending, visit.Status)
	assert.NotNil(t, visit.StartedAt)
	assert.Equal(t, sales.ID, visit.SalespersonID)

	t.Run("starting again converges on the existing row", func(t *testing.T) {
		again, err := svc.Start(ctx, sales.ID, &domain.StartVisitRequest{
			EventID:   event.ID,
			AcademyID: academy.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, visit.ID, again.ID)

		var count int64
		require.NoError(t, db.Model(&domain.Visit{}).
			Where("event_id = ? AND academy_id = ?", event.ID, academy.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestVisitService_Upsert_DuplicateRecovery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createVisitService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Valinhos Cup")
	academy := testutil.CreateTestAcademy(t, db, "Alliance Valinhos")
	sales := testutil.CreateTestUser(t, db, "Pedro", domain.RoleSales)

	// A concurrent writer already owns the (event, academy) pair
	existing := testutil.CreateTestVisit(t, db, event.ID, academy.ID, sales.ID, domain.VisitStatusPending)

	loser := &domain.Visit{
		EventID:       event.ID,
		AcademyID:     academy.ID,
		SalespersonID: sales.ID,
		Status:        domain.VisitStatusPending,
		Notes:         "second writer",
	}
	require.NoError(t, svc.Upsert(ctx, loser))

	assert.Equal(t, existing.ID, loser.ID)
	assert.WithinDuration(t, existing.CreatedAt, loser.CreatedAt, 0)

	var count int64
	require.NoError(t, db.Model(&domain.Visit{}).
		Where("event_id = ? AND academy_id = ?", event.ID, academy.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	persisted, err := repository.NewVisitRepository(db).FindByEventAndAcademy(ctx, event.ID, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, "second writer", persisted.Notes)
}

func TestVisitService_Finalize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createVisitService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Paulista Championship")
	academy := testutil.CreateTestAcademy(t, db, "Checkmat Sorocaba")
	sales := testutil.CreateTestUser(t, db, "Marcos", domain.RoleSales)
	admin := testutil.CreateTestUser(t, db, "Admin", domain.RoleAdmin)

	t.Run("rejects finalize without notes", func(t *testing.T) {
		_, err := svc.Finalize(ctx, sales.ID, &domain.FinalizeVisitRequest{
			EventID:     event.ID,
			AcademyID:   academy.ID,
			Notes:       "   ",
			Temperature: domain.TemperatureWarm,
		})
		assert.ErrorIs(t, err, service.ErrVisitIncomplete)
	})

	t.Run("rejects finalize without valid temperature", func(t *testing.T) {
		_, err := svc.Finalize(ctx, sales.ID, &domain.FinalizeVisitRequest{
			EventID:     event.ID,
			AcademyID:   academy.ID,
			Notes:       "talked to the owner",
			Temperature: domain.Temperature("LUKEWARM"),
		})
		assert.ErrorIs(t, err, service.ErrVisitIncomplete)
	})

	t.Run("completes visit and issues vouchers", func(t *testing.T) {
		result, err := svc.Finalize(ctx, sales.ID, &domain.FinalizeVisitRequest{
			EventID:      event.ID,
			AcademyID:    academy.ID,
			Notes:        "owner wants three passes",
			Summary:      "good reception",
			Temperature:  domain.TemperatureHot,
			VoucherCount: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.VisitStatusVisited, result.Visit.Status)
		assert.NotNil(t, result.Visit.FinishedAt)
		assert.Len(t, result.Visit.VouchersGenerated, 3)

		require.NotNil(t, result.Link)
		assert.Equal(t, academy.Name, result.Link.AcademyName)
		assert.Len(t, result.Link.Codes, 3)
		assert.Contains(t, result.Link.URL, "/#/public-voucher/")

		var vouchers []domain.Voucher
		require.NoError(t, db.Where("visit_id = ?", result.Visit.ID).Find(&vouchers).Error)
		assert.Len(t, vouchers, 3)

		var notifCount int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", admin.ID).Count(&notifCount).Error)
		assert.Equal(t, int64(1), notifCount)
	})

	t.Run("re-finalizing an already visited row does not notify again", func(t *testing.T) {
		_, err := svc.Finalize(ctx, sales.ID, &domain.FinalizeVisitRequest{
			EventID:     event.ID,
			AcademyID:   academy.ID,
			Notes:       "follow-up edit",
			Temperature: domain.TemperatureWarm,
		})
		require.NoError(t, err)

		var notifCount int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", admin.ID).Count(&notifCount).Error)
		assert.Equal(t, int64(1), notifCount)
	})
}

func TestVisitService_Finalize_VoucherFailureKeepsVisit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createVisitService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Interior Open")
	academy := testutil.CreateTestAcademy(t, db, "Atos Jundiai")
	sales := testutil.CreateTestUser(t, db, "Clara", domain.RoleSales)

	// Voucher writes fail while the visit write still succeeds
	require.NoError(t, db.Migrator().DropTable(&domain.Voucher{}))

	result, err := svc.Finalize(ctx, sales.ID, &domain.FinalizeVisitRequest{
		EventID:      event.ID,
		AcademyID:    academy.ID,
		Notes:        "visit went fine",
		Summary:      "left materials",
		Temperature:  domain.TemperatureWarm,
		VoucherCount: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.VisitStatusVisited, result.Visit.Status)
	assert.Nil(t, result.Link)
	assert.Empty(t, result.Visit.VouchersGenerated)
	assert.True(t, strings.HasPrefix(result.Visit.Summary, "[SYSTEM ERROR]"))
	assert.Contains(t, result.Visit.Summary, "left materials")

	persisted, err := repository.NewVisitRepository(db).FindByEventAndAcademy(ctx, event.ID, academy.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitStatusVisited, persisted.Status)
	assert.True(t, strings.HasPrefix(persisted.Summary, "[SYSTEM ERROR]"))
}

func TestVisitService_Cancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createVisitService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Winter Open")
	academy := testutil.CreateTestAcademy(t, db, "GFTeam Campinas")
	sales := testutil.CreateTestUser(t, db, "Rafa", domain.RoleSales)

	t.Run("not found", func(t *testing.T) {
		err := svc.Cancel(ctx, event.ID, academy.ID)
		assert.ErrorIs(t, err, service.ErrVisitNotFound)
	})

	t.Run("cancels a draft", func(t *testing.T) {
		testutil.CreateTestVisit(t, db, event.ID, academy.ID, sales.ID, domain.VisitStatusPending)
		require.NoError(t, svc.Cancel(ctx, event.ID, academy.ID))

		_, err := svc.GetByNaturalKey(ctx, event.ID, academy.ID)
		assert.ErrorIs(t, err, service.ErrVisitNotFound)
	})

	t.Run("refuses to cancel a completed visit", func(t *testing.T) {
		testutil.CreateTestVisit(t, db, event.ID, academy.ID, sales.ID, domain.VisitStatusVisited)
		err := svc.Cancel(ctx, event.ID, academy.ID)
		assert.ErrorIs(t, err, service.ErrVisitAlreadyFinalized)
	})
}

func TestVisitService_ListBySalesperson(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createVisitService(db)
	ctx := context.Background()

	event := testutil.CreateTestEvent(t, db, "Summer Open")
	sales := testutil.CreateTestUser(t, db, "Bia", domain.RoleSales)
	other := testutil.CreateTestUser(t, db, "Duda", domain.RoleSales)

	for i := 0; i < 3; i++ {
		academy := testutil.CreateTestAcademy(t, db, "Academy "+uuid.NewString())
		testutil.CreateTestVisit(t, db, event.ID, academy.ID, sales.ID, domain.VisitStatusPending)
	}
	otherAcademy := testutil.CreateTestAcademy(t, db, "Other Academy")
	testutil.CreateTestVisit(t, db, event.ID, otherAcademy.ID, other.ID, domain.VisitStatusPending)

	visits, err := svc.ListBySalesperson(ctx, sales.ID)
	require.NoError(t, err)
	assert.Len(t, visits, 3)
	for _, v := range visits {
		assert.Equal(t, sales.ID, v.SalespersonID)
	}
}
