package service_test

import (
	"context"
	"testing"
	"time"

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

func createEventService(db *gorm.DB) *service.EventService {
	logger := zap.NewNop()
	eventRepo := repository.NewEventRepository(db)
	academyRepo := repository.NewAcademyRepository(db)
	userRepo := repository.NewUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, settingRepo, logger)
	return service.NewEventService(eventRepo, academyRepo, notificationService, logger)
}

func eventDates() (time.Time, time.Time) {
	start := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	return start, start.Add(48 * time.Hour)
}

func activeAcademyIDs(t *testing.T, db *gorm.DB, eventID uuid.UUID) []uuid.UUID {
	t.Helper()
	var ids []uuid.UUID
	require.NoError(t, db.Model(&domain.EventAcademy{}).
		Where("event_id = ? AND is_active = ?", eventID, true).
		Pluck("academy_id", &ids).Error)
	return ids
}

func TestEventService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEventService(db)
	ctx := context.Background()

	a1 := testutil.CreateTestAcademy(t, db, "Academy One")
	a2 := testutil.CreateTestAcademy(t, db, "Academy Two")
	sales := testutil.CreateTestUser(t, db, "Leo", domain.RoleSales)
	start, end := eventDates()

	event, err := svc.Create(ctx, &domain.CreateEventRequest{
		Name:          "Campinas Open",
		City:          "Campinas",
		State:         "SP",
		SalespersonID: &sales.ID,
		AcademiesIDs:  []uuid.UUID{a1.ID, a2.ID},
		StartDate:     start,
		EndDate:       end,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusUpcoming, event.Status)
	assert.ElementsMatch(t, []uuid.UUID{a1.ID, a2.ID}, event.AcademiesIDs)

	// Assignment notifies the salesperson
	var notifCount int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ?", sales.ID).Count(&notifCount).Error)
	assert.Equal(t, int64(1), notifCount)

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateEventRequest{
			Name:      "Bad Status",
			Status:    domain.EventStatus("SOMEDAY"),
			StartDate: start,
			EndDate:   end,
		})
		assert.ErrorIs(t, err, service.ErrInvalidEventStatus)
	})
}

func TestEventService_Update_MembershipDiff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEventService(db)
	ctx := context.Background()

	a1 := testutil.CreateTestAcademy(t, db, "Kept Academy")
	a2 := testutil.CreateTestAcademy(t, db, "Removed Academy")
	a3 := testutil.CreateTestAcademy(t, db, "Added Academy")
	start, end := eventDates()

	event, err := svc.Create(ctx, &domain.CreateEventRequest{
		Name:         "Diff Event",
		AcademiesIDs: []uuid.UUID{a1.ID, a2.ID},
		StartDate:    start,
		EndDate:      end,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, event.ID, &domain.UpdateEventRequest{
		Name:         "Diff Event",
		AcademiesIDs: []uuid.UUID{a1.ID, a3.ID},
		StartDate:    start,
		EndDate:      end,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a1.ID, a3.ID}, updated.AcademiesIDs)

	assert.ElementsMatch(t, []uuid.UUID{a1.ID, a3.ID}, activeAcademyIDs(t, db, event.ID))

	// Unlinking soft-deletes: the junction row survives with is_active false
	var removedRow domain.EventAcademy
	require.NoError(t, db.Where("event_id = ? AND academy_id = ?", event.ID, a2.ID).
		First(&removedRow).Error)
	assert.False(t, removedRow.IsActive)

	t.Run("re-adding a removed academy revives the same row", func(t *testing.T) {
		_, err := svc.Update(ctx, event.ID, &domain.UpdateEventRequest{
			Name:         "Diff Event",
			AcademiesIDs: []uuid.UUID{a1.ID, a2.ID, a3.ID},
			StartDate:    start,
			EndDate:      end,
		})
		require.NoError(t, err)

		var revived domain.EventAcademy
		require.NoError(t, db.Where("event_id = ? AND academy_id = ?", event.ID, a2.ID).
			First(&revived).Error)
		assert.True(t, revived.IsActive)
		assert.Equal(t, removedRow.ID, revived.ID)

		var junctionRows int64
		require.NoError(t, db.Model(&domain.EventAcademy{}).
			Where("event_id = ?", event.ID).Count(&junctionRows).Error)
		assert.Equal(t, int64(3), junctionRows)
	})
}

func TestEventService_Update_Notifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEventService(db)
	ctx := context.Background()

	oldSales := testutil.CreateTestUser(t, db, "Old Sales", domain.RoleSales)
	newSales := testutil.CreateTestUser(t, db, "New Sales", domain.RoleSales)
	academy := testutil.CreateTestAcademy(t, db, "Some Academy")
	start, end := eventDates()

	event, err := svc.Create(ctx, &domain.CreateEventRequest{
		Name:          "Notify Event",
		SalespersonID: &oldSales.ID,
		AcademiesIDs:  []uuid.UUID{academy.ID},
		StartDate:     start,
		EndDate:       end,
	})
	require.NoError(t, err)

	countNotifs := func(userID uuid.UUID) int64 {
		var n int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", userID).Count(&n).Error)
		return n
	}
	oldBase := countNotifs(oldSales.ID)

	t.Run("reassignment notifies both sides and nothing else", func(t *testing.T) {
		added := testutil.CreateTestAcademy(t, db, "Academy During Reassign")
		_, err := svc.Update(ctx, event.ID, &domain.UpdateEventRequest{
			Name:          "Notify Event Renamed",
			SalespersonID: &newSales.ID,
			AcademiesIDs:  []uuid.UUID{academy.ID, added.ID},
			StartDate:     start,
			EndDate:       end,
		})
		require.NoError(t, err)

		assert.Equal(t, oldBase+1, countNotifs(oldSales.ID))
		assert.Equal(t, int64(1), countNotifs(newSales.ID))
	})

	t.Run("added academies and detail changes notify the assignee", func(t *testing.T) {
		base := countNotifs(newSales.ID)
		another := testutil.CreateTestAcademy(t, db, "Late Addition")

		current := activeAcademyIDs(t, db, event.ID)
		_, err := svc.Update(ctx, event.ID, &domain.UpdateEventRequest{
			Name:          "Notify Event Renamed Again",
			SalespersonID: &newSales.ID,
			AcademiesIDs:  append(current, another.ID),
			StartDate:     start,
			EndDate:       end,
		})
		require.NoError(t, err)

		// One for the added academy, one for the changed details
		assert.Equal(t, base+2, countNotifs(newSales.ID))
	})
}

func TestEventService_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createEventService(db)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, service.ErrEventNotFound)
	})

	t.Run("resolves active membership only", func(t *testing.T) {
		a1 := testutil.CreateTestAcademy(t, db, "Active Member")
		a2 := testutil.CreateTestAcademy(t, db, "Inactive Member")
		start, end := eventDates()

		event, err := svc.Create(ctx, &domain.CreateEventRequest{
			Name:         "Membership Event",
			AcademiesIDs: []uuid.UUID{a1.ID, a2.ID},
			StartDate:    start,
			EndDate:      end,
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, event.ID, &domain.UpdateEventRequest{
			Name:         "Membership Event",
			AcademiesIDs: []uuid.UUID{a1.ID},
			StartDate:    start,
			EndDate:      end,
		})
		require.NoError(t, err)

		got, err := svc.GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a1.ID}, got.AcademiesIDs)
	})
}
