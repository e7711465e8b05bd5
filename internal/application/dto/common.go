package dto

import "github.com/shopspring/decimal"

func init() {
	// Precios como número JSON (5.5) y no como string ("5.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// InsufficientStockDetails detalle adjunto a INSUFFICIENT_STOCK.
type InsufficientStockDetails struct {
	SweetID   int64 `json:"sweetId"`
	Available int   `json:"available"`
	Requested int   `json:"requested"`
}

// HealthResponse salida de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}
