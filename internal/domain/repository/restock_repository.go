package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// RestockRepository define el puerto de persistencia para reabastecimientos.
type RestockRepository interface {
	Create(ctx context.Context, restock *entity.Restock) error
	// List ordena por restock_date DESC, id DESC. sweetID nil = todos.
	List(ctx context.Context, sweetID *int64) ([]*entity.Restock, error)
}
