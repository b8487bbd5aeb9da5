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

func createAllowlistService(db *gorm.DB) *service.AllowlistService {
	return service.NewAllowlistService(repository.NewAllowlistRepository(db), zap.NewNop())
}

func TestAllowlistService_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAllowlistService(db)
	ctx := context.Background()

	entry, err := svc.Add(ctx, &domain.AddAllowlistRequest{Email: "  New.Hire@Example.COM ", Role: domain.RoleSales})
	require.NoError(t, err)
	assert.Equal(t, "new.hire@example.com", entry.Email)
	assert.Equal(t, domain.AllowlistActive, entry.Status)

	// The normalized email collides with the existing entry
	_, err = svc.Add(ctx, &domain.AddAllowlistRequest{Email: "new.hire@example.com", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, service.ErrAllowlistEntryExists)
}

func TestAllowlistService_DeactivateAndRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAllowlistService(db)
	ctx := context.Background()

	entry, err := svc.Add(ctx, &domain.AddAllowlistRequest{Email: "temp@example.com", Role: domain.RoleSales})
	require.NoError(t, err)

	t.Run("deactivate keeps the row", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, entry.ID))

		entries, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.AllowlistInactive, entries[0].Status)
	})

	t.Run("deactivate unknown id", func(t *testing.T) {
		assert.ErrorIs(t, svc.Deactivate(ctx, uuid.New()), service.ErrAllowlistEntryNotFound)
	})

	t.Run("remove deletes the row", func(t *testing.T) {
		require.NoError(t, svc.Remove(ctx, entry.ID))

		entries, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
