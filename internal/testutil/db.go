// Package testutil provides database helpers for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/database"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full
// schema migrated. Each call yields an isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test schema")

	return db
}

// CreateTestUser persists a user with the given role and returns it
func CreateTestUser(t *testing.T, db *gorm.DB, name string, role domain.UserRole) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:         name,
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestAcademy persists an academy and returns it
func CreateTestAcademy(t *testing.T, db *gorm.DB, name string) *domain.Academy {
	t.Helper()

	academy := &domain.Academy{
		Name:        name,
		City:        "Campinas",
		State:       "SP",
		Responsible: "Test Responsible",
	}
	require.NoError(t, db.Create(academy).Error)
	return academy
}

// CreateTestEvent persists an event and returns it
func CreateTestEvent(t *testing.T, db *gorm.DB, name string) *domain.Event {
	t.Helper()

	event := &domain.Event{
		Name:      name,
		City:      "Campinas",
		State:     "SP",
		Status:    domain.EventStatusUpcoming,
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().Add(48 * time.Hour),
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// CreateTestVisit persists a visit in the given status and returns it
func CreateTestVisit(t *testing.T, db *gorm.DB, eventID, academyID, salespersonID uuid.UUID, status domain.VisitStatus) *domain.Visit {
	t.Helper()

	now := time.Now().UTC()
	visit := &domain.Visit{
		EventID:       eventID,
		AcademyID:     academyID,
		SalespersonID: salespersonID,
		Status:        status,
		StartedAt:     &now,
	}
	require.NoError(t, db.Create(visit).Error)
	return visit
}

// SetSettingValue writes a raw JSON value into system settings
func SetSettingValue(t *testing.T, db *gorm.DB, key, rawJSON string) {
	t.Helper()

	setting := &domain.SystemSetting{Key: key, Value: rawJSON, UpdatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(setting).Error)
}
