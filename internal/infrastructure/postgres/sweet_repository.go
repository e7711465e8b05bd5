package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

const sweetColumns = `id, name, price, quantity, description, created_at, updated_at`

// SweetRepo implementación de SweetRepository sobre PostgreSQL (usable con pool o tx).
type SweetRepo struct {
	q Querier
}

// NewSweetRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewSweetRepository(q Querier) *SweetRepo {
	return &SweetRepo{q: q}
}

// Create inserta el producto y completa ID, CreatedAt y UpdatedAt.
func (r *SweetRepo) Create(ctx context.Context, s *entity.Sweet) error {
	query := `
		INSERT INTO sweets (name, price, quantity, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		s.Name, s.Price, s.Quantity, s.Description, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con ese nombre", domain.ErrDuplicate)
		}
		if isOutOfRange(err) {
			return errOutOfRange("")
		}
		return fmt.Errorf("insert sweet: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *SweetRepo) GetByID(ctx context.Context, id int64) (*entity.Sweet, error) {
	return r.get(ctx, `SELECT `+sweetColumns+` FROM sweets WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila para update (SELECT FOR UPDATE).
func (r *SweetRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sweet, error) {
	return r.get(ctx, `SELECT `+sweetColumns+` FROM sweets WHERE id = $1 FOR UPDATE`, id)
}

func (r *SweetRepo) get(ctx context.Context, query string, id int64) (*entity.Sweet, error) {
	s, err := scanSweet(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	return s, nil
}

// List devuelve todo el catálogo ordenado por id.
func (r *SweetRepo) List(ctx context.Context) ([]*entity.Sweet, error) {
	return r.list(ctx, `SELECT `+sweetColumns+` FROM sweets ORDER BY id ASC`)
}

// Search aplica el filtro con ILIKE para el nombre y rangos inclusivos.
func (r *SweetRepo) Search(ctx context.Context, f repository.SweetFilter) ([]*entity.Sweet, error) {
	query, args := buildSearchQuery(f)
	return r.list(ctx, query, args...)
}

func buildSearchQuery(f repository.SweetFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != "" {
		add(`name ILIKE $%d ESCAPE '\'`, "%"+escapeLike(f.Name)+"%")
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.MinQty != nil {
		add("quantity >= $%d", *f.MinQty)
	}
	if f.MaxQty != nil {
		add("quantity <= $%d", *f.MaxQty)
	}
	query := `SELECT ` + sweetColumns + ` FROM sweets`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return query + ` ORDER BY id ASC`, args
}

func (r *SweetRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Sweet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update reemplaza los campos editables del producto.
func (r *SweetRepo) Update(ctx context.Context, s *entity.Sweet) error {
	query := `
		UPDATE sweets SET name = $2, price = $3, quantity = $4, description = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Price, s.Quantity, s.Description, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con ese nombre", domain.ErrDuplicate)
		}
		if isCheckViolation(err) {
			return domain.NewValidationError("", "precio y cantidad no pueden ser negativos")
		}
		if isOutOfRange(err) {
			return errOutOfRange("")
		}
		return fmt.Errorf("update sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// AdjustQuantity suma delta al stock en una sola sentencia condicional, de modo que
// dos decrementos concurrentes nunca dejan la cantidad negativa.
func (r *SweetRepo) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	query := `
		UPDATE sweets SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`
	var qty int
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isCheckViolation(err) {
			return 0, &domain.InsufficientStockError{SweetID: id, Requested: -delta}
		}
		if isOutOfRange(err) {
			return 0, errOutOfRange("quantity")
		}
		return 0, fmt.Errorf("adjust sweet quantity: %w", err)
	}
	// Sin filas: o no existe o no alcanzó el stock
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, domain.ErrSweetNotFound
	}
	return 0, &domain.InsufficientStockError{SweetID: id, Available: current.Quantity, Requested: -delta}
}

// Delete elimina el producto. Con historial la FK (ON DELETE RESTRICT) lo impide.
func (r *SweetRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSweetInUse
		}
		return fmt.Errorf("delete sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

func scanSweet(row pgx.Row) (*entity.Sweet, error) {
	var s entity.Sweet
	if err := row.Scan(&s.ID, &s.Name, &s.Price, &s.Quantity, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
