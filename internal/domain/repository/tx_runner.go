package repository

import "context"

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda nada aplicado (Rollback); si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sweetRepo SweetRepository,
		purchaseRepo PurchaseRepository,
		restockRepo RestockRepository,
	) error) error
}
