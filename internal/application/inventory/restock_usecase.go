package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// RestockUseCase registra ingresos de unidades: bloquea la fila del producto, suma el stock
// y guarda el reabastecimiento en la misma transacción.
type RestockUseCase struct {
	txRunner    TxRunner
	restockRepo repository.RestockRepository
	now         func() time.Time
}

// NewRestockUseCase construye el caso de uso. restockRepo se usa para lecturas fuera de tx.
func NewRestockUseCase(txRunner TxRunner, restockRepo repository.RestockRepository) *RestockUseCase {
	return &RestockUseCase{txRunner: txRunner, restockRepo: restockRepo, now: time.Now}
}

// Create valida la entrada y registra el reabastecimiento. ErrSweetNotFound si el producto no existe.
func (uc *RestockUseCase) Create(ctx context.Context, in dto.CreateRestockRequest) (*dto.RestockResponse, error) {
	in.RestockDate = strings.TrimSpace(in.RestockDate)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	restockDate, err := ParseRestockDate(in.RestockDate)
	if err != nil {
		return nil, err
	}
	var notes *string
	if in.Notes != nil {
		if n := strings.TrimSpace(*in.Notes); n != "" {
			notes = &n
		}
	}
	sweetID, qty := *in.SweetID, *in.Quantity

	restock := &entity.Restock{
		SweetID:     sweetID,
		Quantity:    qty,
		RestockDate: restockDate,
		Notes:       notes,
	}
	err = uc.txRunner.Run(ctx, func(
		sweetRepo repository.SweetRepository,
		_ repository.PurchaseRepository,
		restockRepo repository.RestockRepository,
	) error {
		sweet, err := sweetRepo.GetForUpdate(ctx, sweetID)
		if err != nil {
			return err
		}
		if sweet == nil {
			return domain.ErrSweetNotFound
		}
		if sweet.Quantity > entity.MaxQuantity-qty {
			return domain.NewValidationError("quantity", fmt.Sprintf("el stock resultante supera %d unidades", entity.MaxQuantity))
		}
		if _, err := sweetRepo.AdjustQuantity(ctx, sweetID, qty); err != nil {
			return err
		}
		restock.CreatedAt = uc.now()
		return restockRepo.Create(ctx, restock)
	})
	if err != nil {
		return nil, err
	}
	return ToRestockResponse(restock), nil
}

// List devuelve los reabastecimientos por fecha descendente; sweetID nil = todos.
func (uc *RestockUseCase) List(ctx context.Context, sweetID *int64) ([]dto.RestockResponse, error) {
	list, err := uc.restockRepo.List(ctx, sweetID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RestockResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *ToRestockResponse(r))
	}
	return items, nil
}

// ParseRestockDate interpreta la fecha en UTC (2025-12-10, RFC3339, 12/10/2025...).
func ParseRestockDate(raw string) (time.Time, error) {
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil || t.IsZero() {
		return time.Time{}, domain.NewValidationError("restockDate", "fecha inválida")
	}
	return t.UTC(), nil
}

// ToRestockResponse mapea la entidad a su salida HTTP.
func ToRestockResponse(r *entity.Restock) *dto.RestockResponse {
	if r == nil {
		return nil
	}
	return &dto.RestockResponse{
		ID:          r.ID,
		SweetID:     r.SweetID,
		Quantity:    r.Quantity,
		RestockDate: r.RestockDate,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
}
