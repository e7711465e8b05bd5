package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SweetFilter criterios de búsqueda del catálogo. Los campos vacíos/nil no filtran;
// los que vienen se combinan con AND y los rangos son inclusivos.
type SweetFilter struct {
	Name     string // substring, sin distinguir mayúsculas
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinQty   *int
	MaxQty   *int
}

// SweetRepository define el puerto de persistencia para Sweet (DIP).
type SweetRepository interface {
	// Create persiste el producto y completa ID/CreatedAt. ErrDuplicate si el nombre ya existe.
	Create(ctx context.Context, sweet *entity.Sweet) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Sweet, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Sweet, error)
	List(ctx context.Context) ([]*entity.Sweet, error)
	Search(ctx context.Context, filter SweetFilter) ([]*entity.Sweet, error)
	// Update reemplaza name, price, quantity y description. ErrSweetNotFound / ErrDuplicate.
	Update(ctx context.Context, sweet *entity.Sweet) error
	// AdjustQuantity suma delta al stock solo si el resultado no queda negativo y devuelve el nuevo stock.
	// *domain.InsufficientStockError si no alcanza, ErrSweetNotFound si no existe.
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
	// Delete elimina el producto. ErrSweetNotFound / ErrSweetInUse si tiene historial.
	Delete(ctx context.Context, id int64) error
}
