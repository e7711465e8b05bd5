package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restockReq(sweetID int64, qty int, date string, notes *string) dto.CreateRestockRequest {
	return dto.CreateRestockRequest{SweetID: &sweetID, Quantity: &qty, RestockDate: date, Notes: notes}
}

func TestRestock_SumaStock(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 2)
	uc := inventory.NewRestockUseCase(store, store.Restocks())
	ctx := context.Background()
	notes := "  proveedor A "

	out, err := uc.Create(ctx, restockReq(sw.ID, 10, "2025-12-10", &notes))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC), out.RestockDate)
	require.NotNil(t, out.Notes)
	assert.Equal(t, "proveedor A", *out.Notes)

	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)
}

func TestRestock_NotasVaciasSeOmiten(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 0)
	uc := inventory.NewRestockUseCase(store, store.Restocks())
	blank := "   "

	out, err := uc.Create(context.Background(), restockReq(sw.ID, 1, "2025-12-10T08:30:00Z", &blank))
	require.NoError(t, err)
	assert.Nil(t, out.Notes)
}

func TestRestock_Errores(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 0)
	uc := inventory.NewRestockUseCase(store, store.Restocks())
	ctx := context.Background()

	_, err := uc.Create(ctx, restockReq(999, 1, "2025-12-10", nil))
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)

	_, err = uc.Create(ctx, restockReq(sw.ID, 0, "2025-12-10", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, restockReq(sw.ID, 1, "", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, restockReq(sw.ID, 1, "no es una fecha", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestRestock_ListOrdenYFiltro(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 0)
	uc := inventory.NewRestockUseCase(store, store.Restocks())
	ctx := context.Background()

	for _, d := range []string{"2025-12-01", "2025-12-10", "2025-12-05"} {
		_, err := uc.Create(ctx, restockReq(sw.ID, 1, d, nil))
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 10, list[0].RestockDate.Day())
	assert.Equal(t, 5, list[1].RestockDate.Day())
	assert.Equal(t, 1, list[2].RestockDate.Day())

	other := int64(777)
	list, err = uc.List(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestParseRestockDate(t *testing.T) {
	got, err := inventory.ParseRestockDate("2025-12-10T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 10, 15, 4, 5, 0, time.UTC), got)

	_, err = inventory.ParseRestockDate("mañana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRestock_StockFueraDeRango(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", entity.MaxQuantity-5)
	uc := inventory.NewRestockUseCase(store, store.Restocks())
	ctx := context.Background()

	_, err := uc.Create(ctx, restockReq(sw.ID, 6, "2025-12-10", nil))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity-5, got.Quantity)
	list, err := uc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.Create(ctx, restockReq(sw.ID, 5, "2025-12-10", nil))
	require.NoError(t, err)

	_, err = uc.Create(ctx, restockReq(sw.ID, entity.MaxQuantity+1, "2025-12-10", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
