package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.RestockRepository = (*RestockRepo)(nil)

// RestockRepo implementación de RestockRepository sobre PostgreSQL (usable con pool o tx).
type RestockRepo struct {
	q Querier
}

// NewRestockRepository construye el adaptador de reabastecimientos.
func NewRestockRepository(q Querier) *RestockRepo {
	return &RestockRepo{q: q}
}

// Create inserta el reabastecimiento y completa ID y CreatedAt.
func (r *RestockRepo) Create(ctx context.Context, rs *entity.Restock) error {
	query := `
		INSERT INTO restocks (sweet_id, quantity, restock_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		rs.SweetID, rs.Quantity, rs.RestockDate, rs.Notes, rs.CreatedAt,
	).Scan(&rs.ID, &rs.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSweetNotFound
		}
		if isOutOfRange(err) {
			return errOutOfRange("quantity")
		}
		return fmt.Errorf("insert restock: %w", err)
	}
	return nil
}

// List ordena por restock_date DESC y luego id DESC para que el orden sea estable.
func (r *RestockRepo) List(ctx context.Context, sweetID *int64) ([]*entity.Restock, error) {
	query := `
		SELECT id, sweet_id, quantity, restock_date, notes, created_at
		FROM restocks`
	var args []any
	if sweetID != nil {
		query += ` WHERE sweet_id = $1`
		args = append(args, *sweetID)
	}
	query += ` ORDER BY restock_date DESC, id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restocks: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Restock, error) {
		var rs entity.Restock
		err := row.Scan(&rs.ID, &rs.SweetID, &rs.Quantity, &rs.RestockDate, &rs.Notes, &rs.CreatedAt)
		return &rs, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan restock: %w", err)
	}
	return list, nil
}
