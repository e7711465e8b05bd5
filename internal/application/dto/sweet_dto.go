package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSweetRequest entrada para crear un producto.
type CreateSweetRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Quantity    *int             `json:"quantity" validate:"required,lte=2147483647"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
}

// UpdateSweetRequest actualización parcial: solo se aplican los campos presentes.
type UpdateSweetRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" validate:"omitempty,lte=2147483647"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
}

// IsEmpty indica que no vino ningún campo.
func (r UpdateSweetRequest) IsEmpty() bool {
	return r.Name == nil && r.Price == nil && r.Quantity == nil && r.Description == nil
}

// SearchSweetsQuery parámetros crudos de GET /api/sweets/search (se validan en el caso de uso).
type SearchSweetsQuery struct {
	Name     string `query:"name"`
	MinPrice string `query:"minPrice"`
	MaxPrice string `query:"maxPrice"`
	MinQty   string `query:"minQty"`
	MaxQty   string `query:"maxQty"`
}

// SweetResponse salida de un producto.
type SweetResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
