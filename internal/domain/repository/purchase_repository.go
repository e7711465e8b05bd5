package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	// List devuelve las compras más recientes primero, con el producto cargado en Sweet.
	List(ctx context.Context) ([]*entity.Purchase, error)
}
