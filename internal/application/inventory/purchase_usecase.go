package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// PurchaseUseCase registra ventas de forma transaccional: bloquea la fila del producto
// (SELECT FOR UPDATE), verifica stock, descuenta y guarda la compra en la misma tx.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	now          func() time.Time
}

// NewPurchaseUseCase construye el caso de uso. purchaseRepo se usa para lecturas fuera de tx.
func NewPurchaseUseCase(txRunner TxRunner, purchaseRepo repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, purchaseRepo: purchaseRepo, now: time.Now}
}

// Create valida la entrada y registra la compra.
// ErrSweetNotFound si el producto no existe; *domain.InsufficientStockError si no alcanza el stock
// (en ese caso no se modifica nada).
func (uc *PurchaseUseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	sweetID, qty := *in.SweetID, *in.Quantity

	var (
		purchase *entity.Purchase
		after    *entity.Sweet
	)
	err := uc.txRunner.Run(ctx, func(
		sweetRepo repository.SweetRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.RestockRepository,
	) error {
		// Bloquea la fila: compras concurrentes del mismo producto se serializan aquí
		sweet, err := sweetRepo.GetForUpdate(ctx, sweetID)
		if err != nil {
			return err
		}
		if sweet == nil {
			return domain.ErrSweetNotFound
		}
		if sweet.Quantity < qty {
			return &domain.InsufficientStockError{SweetID: sweetID, Available: sweet.Quantity, Requested: qty}
		}
		total := sweet.Price.Mul(decimal.NewFromInt(int64(qty)))
		if total.GreaterThan(entity.MaxAmount) {
			return domain.NewValidationError("quantity", "el total de la compra supera "+entity.MaxAmount.StringFixed(2))
		}
		// Decremento condicional (quantity - qty >= 0): si otra tx se coló, falla en vez de quedar negativo
		remaining, err := sweetRepo.AdjustQuantity(ctx, sweetID, -qty)
		if err != nil {
			return err
		}
		now := uc.now()
		purchase = &entity.Purchase{
			SweetID:      sweetID,
			Quantity:     qty,
			CustomerName: in.CustomerName,
			TotalPrice:   total,
			CreatedAt:    now,
		}
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}
		sweet.Quantity = remaining
		sweet.UpdatedAt = now
		after = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	purchase.Sweet = after
	return ToPurchaseResponse(purchase), nil
}

// List devuelve todas las compras, más recientes primero, con su producto.
func (uc *PurchaseUseCase) List(ctx context.Context) ([]dto.PurchaseResponse, error) {
	list, err := uc.purchaseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToPurchaseResponse(p))
	}
	return items, nil
}

// ToPurchaseResponse mapea la entidad a su salida HTTP.
func ToPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	if p == nil {
		return nil
	}
	return &dto.PurchaseResponse{
		ID:           p.ID,
		SweetID:      p.SweetID,
		Quantity:     p.Quantity,
		CustomerName: p.CustomerName,
		TotalPrice:   p.TotalPrice,
		CreatedAt:    p.CreatedAt,
		Sweet:        usecase.ToSweetResponse(p.Sweet),
	}
}
