package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase registra una venta. Inmutable una vez creada.
// TotalPrice = precio del producto al momento de la compra × Quantity.
type Purchase struct {
	ID           int64
	SweetID      int64
	Quantity     int
	CustomerName string
	TotalPrice   decimal.Decimal
	CreatedAt    time.Time

	// Sweet se completa en los listados (join con sweets).
	Sweet *Sweet
}
