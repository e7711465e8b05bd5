package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSweet(t *testing.T, s *Store, name string, price string, qty int) *entity.Sweet {
	t.Helper()
	sw := &entity.Sweet{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
	require.NoError(t, s.Sweets().Create(context.Background(), sw))
	return sw
}

func TestSweetRepo_NombreUnico(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedSweet(t, s, "Chocolate", "2.50", 10)
	seedSweet(t, s, "Gummy", "1.00", 5)

	err := s.Sweets().Create(ctx, &entity.Sweet{Name: "Chocolate", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	a.Name = "Gummy"
	assert.ErrorIs(t, s.Sweets().Update(ctx, a), domain.ErrDuplicate)

	a.Name = "Chocolate amargo"
	require.NoError(t, s.Sweets().Update(ctx, a))
	got, err := s.Sweets().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate amargo", got.Name)
}

func TestSweetRepo_DevuelveCopias(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sw := seedSweet(t, s, "Lollipop", "0.75", 3)

	got, err := s.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	got.Quantity = 999

	again, err := s.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Quantity)
}

func TestSweetRepo_Search(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedSweet(t, s, "Dark Chocolate", "3.00", 20)
	seedSweet(t, s, "Milk CHOCOLATE", "2.00", 0)
	seedSweet(t, s, "Gummy Bears", "1.50", 8)

	min := decimal.RequireFromString("2.00")
	one := 1
	list, err := s.Sweets().Search(ctx, repository.SweetFilter{Name: "chocolate", MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dark Chocolate", list[0].Name)

	list, err = s.Sweets().Search(ctx, repository.SweetFilter{Name: "chocolate", MinQty: &one})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dark Chocolate", list[0].Name)
}

func TestSweetRepo_AdjustQuantity(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sw := seedSweet(t, s, "Toffee", "1.00", 5)

	qty, err := s.Sweets().AdjustQuantity(ctx, sw.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	_, err = s.Sweets().AdjustQuantity(ctx, sw.ID, -3)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	_, err = s.Sweets().AdjustQuantity(ctx, 404, 1)
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetRepo_DeleteConHistorial(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	used := seedSweet(t, s, "Caramel", "1.00", 5)
	free := seedSweet(t, s, "Marshmallow", "1.00", 5)

	require.NoError(t, s.Restocks().Create(ctx, &entity.Restock{SweetID: used.ID, Quantity: 1, RestockDate: time.Now()}))

	assert.ErrorIs(t, s.Sweets().Delete(ctx, used.ID), domain.ErrSweetInUse)
	assert.ErrorIs(t, s.Sweets().Delete(ctx, used.ID), domain.ErrConflict)
	require.NoError(t, s.Sweets().Delete(ctx, free.ID))
	assert.ErrorIs(t, s.Sweets().Delete(ctx, free.ID), domain.ErrSweetNotFound)
}

func TestRun_RollbackSiFalla(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sw := seedSweet(t, s, "Nougat", "2.00", 5)
	boom := errors.New("boom")

	err := s.Run(ctx, func(sweets repository.SweetRepository, purchases repository.PurchaseRepository, _ repository.RestockRepository) error {
		if _, err := sweets.AdjustQuantity(ctx, sw.ID, -2); err != nil {
			return err
		}
		if err := purchases.Create(ctx, &entity.Purchase{SweetID: sw.ID, Quantity: 2, CustomerName: "Ana"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	list, err := s.Purchases().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	sw := seedSweet(t, s, "Fudge", "2.00", 5)

	err := s.Run(ctx, func(sweets repository.SweetRepository, purchases repository.PurchaseRepository, _ repository.RestockRepository) error {
		if _, err := sweets.AdjustQuantity(ctx, sw.ID, -2); err != nil {
			return err
		}
		return purchases.Create(ctx, &entity.Purchase{SweetID: sw.ID, Quantity: 2, CustomerName: "Ana"})
	})
	require.NoError(t, err)

	got, err := s.Sweets().GetByID(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	list, err := s.Purchases().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Sweet)
	assert.Equal(t, "Fudge", list[0].Sweet.Name)
}

func TestRestockRepo_OrdenPorFechaDesc(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedSweet(t, s, "Licorice", "1.00", 0)
	b := seedSweet(t, s, "Praline", "1.00", 0)
	day := func(d int) time.Time { return time.Date(2025, 12, d, 0, 0, 0, 0, time.UTC) }

	for _, rs := range []*entity.Restock{
		{SweetID: a.ID, Quantity: 1, RestockDate: day(1)},
		{SweetID: b.ID, Quantity: 1, RestockDate: day(10)},
		{SweetID: a.ID, Quantity: 1, RestockDate: day(10)},
	} {
		require.NoError(t, s.Restocks().Create(ctx, rs))
	}

	list, err := s.Restocks().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})

	list, err = s.Restocks().List(ctx, &a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)
}

func TestUserRepo(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := &entity.User{Email: "ana@example.com", PasswordHash: "x", Role: entity.RoleUser}
	require.NoError(t, s.Users().Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.ErrorIs(t, s.Users().Create(ctx, &entity.User{Email: "ana@example.com"}), domain.ErrEmailAlreadyExists)

	require.NoError(t, s.Users().UpdateRole(ctx, u.ID, entity.RoleAdmin))
	got, err := s.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)

	missing, err := s.Users().GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, s.Users().UpdateRole(ctx, 99, entity.RoleAdmin), domain.ErrUserNotFound)
}
