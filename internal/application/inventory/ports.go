package inventory

import "github.com/jhoicas/sweetshop-api/internal/domain/repository"

// TxRunner garantiza que el registro de compra/reabastecimiento y el ajuste de stock se ven juntos o no se ven.
type TxRunner = repository.TxRunner
