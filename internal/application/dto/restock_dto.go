package dto

import "time"

// CreateRestockRequest body para POST /api/restocks.
// RestockDate acepta fecha ISO (2025-12-10), RFC3339 y otros formatos comunes.
type CreateRestockRequest struct {
	SweetID     *int64  `json:"sweetId" validate:"required,gt=0"`
	Quantity    *int    `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	RestockDate string  `json:"restockDate" validate:"required"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

// RestockResponse salida de un reabastecimiento.
type RestockResponse struct {
	ID          int64     `json:"id"`
	SweetID     int64     `json:"sweetId"`
	Quantity    int       `json:"quantity"`
	RestockDate time.Time `json:"restockDate"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}
