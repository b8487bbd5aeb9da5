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

func createAcademyService(db *gorm.DB) *service.AcademyService {
	return service.NewAcademyService(repository.NewAcademyRepository(db), zap.NewNop())
}

func TestAcademyService_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAcademyService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreateAcademyRequest{
		Name:        "Gracie Barra Centro",
		Address:     "Rua das Flores 100",
		City:        "Curitiba",
		State:       "PR",
		Responsible: "Carlos",
		Phone:       "+55 41 99999-0000",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gracie Barra Centro", fetched.Name)
	assert.Equal(t, "PR", fetched.State)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrAcademyNotFound)
}

func TestAcademyService_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAcademyService(db)
	ctx := context.Background()

	names := []string{"Alliance Leblon", "Alliance Tijuca", "Checkmat Barra"}
	for _, name := range names {
		_, err := svc.Create(ctx, &domain.CreateAcademyRequest{Name: name, City: "Rio de Janeiro"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = svc.List(ctx, 1, 10, "alliance")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestAcademyService_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAcademyService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreateAcademyRequest{Name: "Old Name", City: "Recife"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &domain.UpdateAcademyRequest{
		Name: "New Name",
		City: "Olinda",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Olinda", updated.City)

	_, err = svc.Update(ctx, uuid.New(), &domain.UpdateAcademyRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, service.ErrAcademyNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrAcademyNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), service.ErrAcademyNotFound)
}
