package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithSweet(t *testing.T, price string, qty int) (*memory.Store, *entity.Sweet) {
	t.Helper()
	store := memory.NewStore()
	sw := &entity.Sweet{Name: "Chocolate Bar", Price: decimal.RequireFromString(price), Quantity: qty}
	require.NoError(t, store.Sweets().Create(context.Background(), sw))
	return store, sw
}

func purchaseReq(sweetID int64, qty int, customer string) dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{SweetID: &sweetID, Quantity: &qty, CustomerName: customer}
}

func TestPurchase_DescuentaStockYCalculaTotal(t *testing.T) {
	store, sw := newStoreWithSweet(t, "2.50", 5)
	uc := inventory.NewPurchaseUseCase(store, store.Purchases())
	ctx := context.Background()

	out, err := uc.Create(ctx, purchaseReq(sw.ID, 3, "  Ana  "))
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.CustomerName)
	assert.True(t, decimal.RequireFromString("7.50").Equal(out.TotalPrice), "total = 2.50 x 3")
	require.NotNil(t, out.Sweet)
	assert.Equal(t, 2, out.Sweet.Quantity)

	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

func TestPurchase_StockInsuficienteNoModificaNada(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 5)
	uc := inventory.NewPurchaseUseCase(store, store.Purchases())
	ctx := context.Background()

	_, err := uc.Create(ctx, purchaseReq(sw.ID, 3, "Ana"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, purchaseReq(sw.ID, 1, "Luis"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, purchaseReq(sw.ID, 5, "Eva"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "Luis", list[0].CustomerName, "más reciente primero")
}

func TestPurchase_ProductoInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewPurchaseUseCase(store, store.Purchases())

	_, err := uc.Create(context.Background(), purchaseReq(42, 1, "Ana"))
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPurchase_Validacion(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 5)
	uc := inventory.NewPurchaseUseCase(store, store.Purchases())
	zero, neg := 0, -2

	tests := []struct {
		name  string
		in    dto.CreatePurchaseRequest
		field string
	}{
		{"sin sweetId", dto.CreatePurchaseRequest{Quantity: &zero, CustomerName: "Ana"}, "sweetId"},
		{"cantidad cero", dto.CreatePurchaseRequest{SweetID: &sw.ID, Quantity: &zero, CustomerName: "Ana"}, "quantity"},
		{"cantidad negativa", dto.CreatePurchaseRequest{SweetID: &sw.ID, Quantity: &neg, CustomerName: "Ana"}, "quantity"},
		{"cliente en blanco", purchaseReq(sw.ID, 1, "   "), "customerName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestPurchase_ConcurrentesNoSobrevenden(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 5)
	uc := inventory.NewPurchaseUseCase(store, store.Purchases())
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(ctx, purchaseReq(sw.ID, 3, "Cliente"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, fail)
	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

// failingRunner simula un fallo al persistir la compra después de descontar stock.
type failingRunner struct {
	store *memory.Store
}

func (f failingRunner) Run(ctx context.Context, fn func(repository.SweetRepository, repository.PurchaseRepository, repository.RestockRepository) error) error {
	return f.store.Run(ctx, func(s repository.SweetRepository, _ repository.PurchaseRepository, r repository.RestockRepository) error {
		return fn(s, brokenPurchases{}, r)
	})
}

type brokenPurchases struct{}

func (brokenPurchases) Create(context.Context, *entity.Purchase) error {
	return errors.New("disco lleno")
}
func (brokenPurchases) List(context.Context) ([]*entity.Purchase, error) { return nil, nil }

func TestPurchase_FalloAlGuardarRevierteStock(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 5)
	uc := inventory.NewPurchaseUseCase(failingRunner{store}, store.Purchases())
	ctx := context.Background()

	_, err := uc.Create(ctx, purchaseReq(sw.ID, 2, "Ana"))
	require.Error(t, err)

	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "el descuento no debe quedar aplicado sin la compra")
}

func TestPurchase_TotalFueraDeRango(t *testing.T) {
	store, sw := newStoreWithSweet(t, "9999999999.99", 5)
	uc := inventory.NewPurchaseUseCase(store, store.Purchases())
	ctx := context.Background()

	_, err := uc.Create(ctx, purchaseReq(sw.ID, 2, "Ana"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	got, err := store.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	list, err := store.Purchases().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// una unidad cabe justo en el máximo
	out, err := uc.Create(ctx, purchaseReq(sw.ID, 1, "Ana"))
	require.NoError(t, err)
	assert.True(t, entity.MaxAmount.Equal(out.TotalPrice))
}

func TestPurchase_CantidadExcedeInteger(t *testing.T) {
	store, sw := newStoreWithSweet(t, "1.00", 5)
	uc := inventory.NewPurchaseUseCase(store, store.Purchases())

	_, err := uc.Create(context.Background(), purchaseReq(sw.ID, entity.MaxQuantity+1, "Ana"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
