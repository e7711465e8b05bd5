package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SweetID      *int64 `json:"sweetId" validate:"required,gt=0"`
	Quantity     *int   `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	CustomerName string `json:"customerName" validate:"required,max=200"`
}

// PurchaseResponse salida de una compra; Sweet es el producto tal como quedó (o está) tras la compra.
type PurchaseResponse struct {
	ID           int64           `json:"id"`
	SweetID      int64           `json:"sweetId"`
	Quantity     int             `json:"quantity"`
	CustomerName string          `json:"customerName"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	CreatedAt    time.Time       `json:"createdAt"`
	Sweet        *SweetResponse  `json:"sweet,omitempty"`
}
