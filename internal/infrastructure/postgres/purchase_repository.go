package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la compra y completa ID y CreatedAt.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (sweet_id, quantity, customer_name, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		p.SweetID, p.Quantity, p.CustomerName, p.TotalPrice, p.CreatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSweetNotFound
		}
		if isOutOfRange(err) {
			return errOutOfRange("quantity")
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// List devuelve las compras más recientes primero, con el producto (JOIN sweets).
func (r *PurchaseRepo) List(ctx context.Context) ([]*entity.Purchase, error) {
	query := `
		SELECT p.id, p.sweet_id, p.quantity, p.customer_name, p.total_price, p.created_at,
		       s.id, s.name, s.price, s.quantity, s.description, s.created_at, s.updated_at
		FROM purchases p
		JOIN sweets s ON s.id = p.sweet_id
		ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Purchase, 0)
	for rows.Next() {
		var (
			p entity.Purchase
			s entity.Sweet
		)
		if err := rows.Scan(
			&p.ID, &p.SweetID, &p.Quantity, &p.CustomerName, &p.TotalPrice, &p.CreatedAt,
			&s.ID, &s.Name, &s.Price, &s.Quantity, &s.Description, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.Sweet = &s
		list = append(list, &p)
	}
	return list, rows.Err()
}
