package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Rangos de las columnas: quantity es INTEGER; price y total_price son NUMERIC(12,2).
const MaxQuantity = math.MaxInt32

// MaxAmount mayor importe que cabe en NUMERIC(12,2).
var MaxAmount = decimal.RequireFromString("9999999999.99")

// Sweet representa un producto del catálogo de la dulcería.
// Quantity es el stock disponible: solo lo modifican el CRUD de catálogo y las compras/reabastecimientos.
type Sweet struct {
	ID          int64
	Name        string          // único
	Price       decimal.Decimal // precio de venta, >= 0
	Quantity    int             // unidades disponibles, >= 0
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
