package entity

import "time"

// Restock registra un ingreso de unidades a un producto. Inmutable una vez creado.
type Restock struct {
	ID          int64
	SweetID     int64
	Quantity    int
	RestockDate time.Time
	Notes       *string
	CreatedAt   time.Time
}
