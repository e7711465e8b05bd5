package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SweetUseCase casos de uso CRUD y búsqueda para el catálogo.
// El stock también cambia vía compras y reabastecimientos (paquete inventory).
type SweetUseCase struct {
	repo     repository.SweetRepository
	txRunner repository.TxRunner
}

// NewSweetUseCase construye el caso de uso. txRunner serializa Update con las compras y reabastecimientos.
func NewSweetUseCase(repo repository.SweetRepository, txRunner repository.TxRunner) *SweetUseCase {
	return &SweetUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un nuevo producto. ErrDuplicate si el nombre ya existe.
func (uc *SweetUseCase) Create(ctx context.Context, in dto.CreateSweetRequest) (*dto.SweetResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}
	if err := validateQuantity(*in.Quantity); err != nil {
		return nil, err
	}
	now := time.Now()
	sweet := &entity.Sweet{
		Name:        in.Name,
		Price:       roundPrice(*in.Price),
		Quantity:    *in.Quantity,
		Description: normalizeOptional(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, sweet); err != nil {
		return nil, err
	}
	return ToSweetResponse(sweet), nil
}

// GetByID obtiene un producto por ID. ErrSweetNotFound si no existe.
func (uc *SweetUseCase) GetByID(ctx context.Context, id int64) (*dto.SweetResponse, error) {
	sweet, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sweet == nil {
		return nil, domain.ErrSweetNotFound
	}
	return ToSweetResponse(sweet), nil
}

// List devuelve todo el catálogo.
func (uc *SweetUseCase) List(ctx context.Context) ([]dto.SweetResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toSweetResponses(list), nil
}

// Search filtra por nombre (substring sin distinguir mayúsculas), rango de precio y de cantidad.
// Los filtros son opcionales y se combinan con AND; un número mal formado devuelve ValidationError.
func (uc *SweetUseCase) Search(ctx context.Context, q dto.SearchSweetsQuery) ([]dto.SweetResponse, error) {
	filter, err := ParseSweetFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toSweetResponses(list), nil
}

// Update aplica solo los campos presentes. Requiere al menos uno.
// Lee y escribe dentro de una transacción con la fila bloqueada: una compra concurrente
// espera y su descuento no se pierde al reescribir el producto.
func (uc *SweetUseCase) Update(ctx context.Context, id int64, in dto.UpdateSweetRequest) (*dto.SweetResponse, error) {
	if in.IsEmpty() {
		return nil, domain.NewValidationError("", "se debe enviar al menos un campo para actualizar")
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var name string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede estar vacío")
		}
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
	}
	if in.Quantity != nil {
		if err := validateQuantity(*in.Quantity); err != nil {
			return nil, err
		}
	}

	var out *entity.Sweet
	err := uc.txRunner.Run(ctx, func(
		sweetRepo repository.SweetRepository,
		_ repository.PurchaseRepository,
		_ repository.RestockRepository,
	) error {
		sweet, err := sweetRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sweet == nil {
			return domain.ErrSweetNotFound
		}
		if in.Name != nil {
			sweet.Name = name
		}
		if in.Price != nil {
			sweet.Price = roundPrice(*in.Price)
		}
		if in.Quantity != nil {
			sweet.Quantity = *in.Quantity
		}
		if in.Description != nil {
			sweet.Description = normalizeOptional(in.Description)
		}
		sweet.UpdatedAt = time.Now()
		if err := sweetRepo.Update(ctx, sweet); err != nil {
			return err
		}
		out = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToSweetResponse(out), nil
}

// Delete elimina un producto. ErrSweetNotFound si no existe, ErrSweetInUse si tiene historial.
func (uc *SweetUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// ParseSweetFilter convierte los parámetros de query en un filtro tipado.
func ParseSweetFilter(q dto.SearchSweetsQuery) (repository.SweetFilter, error) {
	var f repository.SweetFilter
	f.Name = strings.TrimSpace(q.Name)

	var err error
	if f.MinPrice, err = parseDecimalParam("minPrice", q.MinPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseDecimalParam("maxPrice", q.MaxPrice); err != nil {
		return f, err
	}
	if f.MinQty, err = parseIntParam("minQty", q.MinQty); err != nil {
		return f, err
	}
	if f.MaxQty, err = parseIntParam("maxQty", q.MaxQty); err != nil {
		return f, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return f, domain.NewValidationError("minPrice", "no puede ser mayor que maxPrice")
	}
	if f.MinQty != nil && f.MaxQty != nil && *f.MinQty > *f.MaxQty {
		return f, domain.NewValidationError("minQty", "no puede ser mayor que maxQty")
	}
	return f, nil
}

func parseDecimalParam(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "debe ser un número")
	}
	if d.IsNegative() {
		return nil, domain.NewValidationError(field, "no puede ser negativo")
	}
	return &d, nil
}

func parseIntParam(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "debe ser un número entero")
	}
	if n < 0 {
		return nil, domain.NewValidationError(field, "no puede ser negativo")
	}
	if n > entity.MaxQuantity {
		return nil, domain.NewValidationError(field, fmt.Sprintf("debe ser menor o igual que %d", entity.MaxQuantity))
	}
	return &n, nil
}

// roundPrice deja dos decimales, como NUMERIC(12,2).
func roundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(2)
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	if roundPrice(p).GreaterThan(entity.MaxAmount) {
		return domain.NewValidationError("price", "no puede superar "+entity.MaxAmount.StringFixed(2))
	}
	return nil
}

func validateQuantity(q int) error {
	if q < 0 {
		return domain.NewValidationError("quantity", "no puede ser negativa")
	}
	if q > entity.MaxQuantity {
		return domain.NewValidationError("quantity", fmt.Sprintf("debe ser menor o igual que %d", entity.MaxQuantity))
	}
	return nil
}

// normalizeOptional recorta y convierte "" en nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ToSweetResponse mapea la entidad a su salida HTTP.
func ToSweetResponse(s *entity.Sweet) *dto.SweetResponse {
	if s == nil {
		return nil
	}
	return &dto.SweetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toSweetResponses(list []*entity.Sweet) []dto.SweetResponse {
	items := make([]dto.SweetResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSweetResponse(s))
	}
	return items
}
