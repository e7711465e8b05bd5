// Package memory implementa los repositorios en memoria (STORE_DRIVER=memory y tests).
// Replica las restricciones de la base: email y nombre únicos, stock no negativo y
// borrado bloqueado cuando el producto tiene historial.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var (
	_ repository.TxRunner           = (*Store)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.SweetRepository    = (*SweetRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.RestockRepository  = (*RestockRepo)(nil)
)

type state struct {
	users     map[int64]*entity.User
	sweets    map[int64]*entity.Sweet
	purchases []*entity.Purchase
	restocks  []*entity.Restock

	userSeq, sweetSeq, purchaseSeq, restockSeq int64
}

func newState() *state {
	return &state{
		users:  make(map[int64]*entity.User),
		sweets: make(map[int64]*entity.Sweet),
	}
}

// clone copia mapas y slices; las entidades se tratan como inmutables y se reemplazan al escribir.
func (s *state) clone() *state {
	c := *s
	c.users = make(map[int64]*entity.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.sweets = make(map[int64]*entity.Sweet, len(s.sweets))
	for k, v := range s.sweets {
		c.sweets[k] = v
	}
	c.purchases = append([]*entity.Purchase(nil), s.purchases...)
	c.restocks = append([]*entity.Restock(nil), s.restocks...)
	return &c
}

// Store guarda el estado completo. Las escrituras se serializan con writeMu;
// las transacciones trabajan sobre una copia que se publica solo si fn termina sin error.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	data    *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Ping siempre responde; existe para el chequeo de /health.
func (s *Store) Ping(context.Context) error { return nil }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{a: storeAccess{s}} }

// Sweets devuelve el repositorio del catálogo.
func (s *Store) Sweets() *SweetRepo { return &SweetRepo{a: storeAccess{s}} }

// Purchases devuelve el repositorio de compras.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{a: storeAccess{s}} }

// Restocks devuelve el repositorio de reabastecimientos.
func (s *Store) Restocks() *RestockRepo { return &RestockRepo{a: storeAccess{s}} }

// Run ejecuta fn con repos atados a una copia del estado; si fn falla la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(
	sweetRepo repository.SweetRepository,
	purchaseRepo repository.PurchaseRepository,
	restockRepo repository.RestockRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	a := txAccess{work}
	if err := fn(&SweetRepo{a: a}, &PurchaseRepo{a: a}, &RestockRepo{a: a}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// access abstrae si un repo lee/escribe el estado publicado o la copia de una transacción.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type storeAccess struct{ s *Store }

func (a storeAccess) read(fn func(st *state) error) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return fn(a.s.data)
}

func (a storeAccess) write(fn func(st *state) error) error {
	a.s.writeMu.Lock()
	defer a.s.writeMu.Unlock()
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.data)
}

// txAccess opera sobre la copia privada; el writeMu ya lo tiene Run.
type txAccess struct{ st *state }

func (a txAccess) read(fn func(st *state) error) error  { return fn(a.st) }
func (a txAccess) write(fn func(st *state) error) error { return fn(a.st) }

// ---- users ----

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct{ a access }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.a.write(func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.userSeq++
		user.ID = st.userSeq
		cp := *user
		st.users[cp.ID] = &cp
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				cp := *u
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) UpdateRole(_ context.Context, id int64, role string) error {
	return r.a.write(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		cp := *u
		cp.Role = role
		cp.UpdatedAt = time.Now()
		st.users[id] = &cp
		return nil
	})
}

// ---- sweets ----

// SweetRepo implementación en memoria de SweetRepository.
type SweetRepo struct{ a access }

func (r *SweetRepo) Create(_ context.Context, sweet *entity.Sweet) error {
	return r.a.write(func(st *state) error {
		if nameTaken(st, sweet.Name, 0) {
			return domain.ErrDuplicate
		}
		if err := checkSweetRange(sweet); err != nil {
			return err
		}
		st.sweetSeq++
		sweet.ID = st.sweetSeq
		st.sweets[sweet.ID] = copySweet(sweet)
		return nil
	})
}

func (r *SweetRepo) GetByID(_ context.Context, id int64) (*entity.Sweet, error) {
	var out *entity.Sweet
	err := r.a.read(func(st *state) error {
		if s, ok := st.sweets[id]; ok {
			out = copySweet(s)
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo extra: dentro de Run la transacción ya es exclusiva.
func (r *SweetRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sweet, error) {
	return r.GetByID(ctx, id)
}

func (r *SweetRepo) List(ctx context.Context) ([]*entity.Sweet, error) {
	return r.Search(ctx, repository.SweetFilter{})
}

func (r *SweetRepo) Search(_ context.Context, f repository.SweetFilter) ([]*entity.Sweet, error) {
	name := strings.ToLower(f.Name)
	list := make([]*entity.Sweet, 0)
	err := r.a.read(func(st *state) error {
		for _, s := range st.sweets {
			if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
				continue
			}
			if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
				continue
			}
			if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
				continue
			}
			if f.MinQty != nil && s.Quantity < *f.MinQty {
				continue
			}
			if f.MaxQty != nil && s.Quantity > *f.MaxQty {
				continue
			}
			list = append(list, copySweet(s))
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, err
}

func (r *SweetRepo) Update(_ context.Context, sweet *entity.Sweet) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.sweets[sweet.ID]; !ok {
			return domain.ErrSweetNotFound
		}
		if nameTaken(st, sweet.Name, sweet.ID) {
			return domain.ErrDuplicate
		}
		if err := checkSweetRange(sweet); err != nil {
			return err
		}
		st.sweets[sweet.ID] = copySweet(sweet)
		return nil
	})
}

func (r *SweetRepo) AdjustQuantity(_ context.Context, id int64, delta int) (int, error) {
	var qty int
	err := r.a.write(func(st *state) error {
		s, ok := st.sweets[id]
		if !ok {
			return domain.ErrSweetNotFound
		}
		if s.Quantity+delta < 0 {
			return &domain.InsufficientStockError{SweetID: id, Available: s.Quantity, Requested: -delta}
		}
		if s.Quantity+delta > entity.MaxQuantity {
			return outOfRange("quantity")
		}
		cp := copySweet(s)
		cp.Quantity += delta
		cp.UpdatedAt = time.Now()
		st.sweets[id] = cp
		qty = cp.Quantity
		return nil
	})
	return qty, err
}

func (r *SweetRepo) Delete(_ context.Context, id int64) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.sweets[id]; !ok {
			return domain.ErrSweetNotFound
		}
		for _, p := range st.purchases {
			if p.SweetID == id {
				return domain.ErrSweetInUse
			}
		}
		for _, rs := range st.restocks {
			if rs.SweetID == id {
				return domain.ErrSweetInUse
			}
		}
		delete(st.sweets, id)
		return nil
	})
}

func nameTaken(st *state, name string, exceptID int64) bool {
	for id, s := range st.sweets {
		if id != exceptID && s.Name == name {
			return true
		}
	}
	return false
}

// checkSweetRange emula los tipos de columna (INTEGER, NUMERIC(12,2)) de PostgreSQL.
func checkSweetRange(s *entity.Sweet) error {
	if s.Quantity > entity.MaxQuantity || s.Price.GreaterThan(entity.MaxAmount) {
		return outOfRange("")
	}
	return nil
}

func outOfRange(field string) error {
	return domain.NewValidationError(field, "valor fuera de rango")
}

func copySweet(s *entity.Sweet) *entity.Sweet {
	cp := *s
	if s.Description != nil {
		d := *s.Description
		cp.Description = &d
	}
	return &cp
}

// ---- purchases ----

// PurchaseRepo implementación en memoria de PurchaseRepository.
type PurchaseRepo struct{ a access }

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.sweets[p.SweetID]; !ok {
			return domain.ErrSweetNotFound
		}
		if p.TotalPrice.GreaterThan(entity.MaxAmount) {
			return outOfRange("quantity")
		}
		st.purchaseSeq++
		p.ID = st.purchaseSeq
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		cp := *p
		cp.Sweet = nil
		st.purchases = append(st.purchases, &cp)
		return nil
	})
}

func (r *PurchaseRepo) List(_ context.Context) ([]*entity.Purchase, error) {
	list := make([]*entity.Purchase, 0)
	err := r.a.read(func(st *state) error {
		for _, p := range st.purchases {
			cp := *p
			if s, ok := st.sweets[p.SweetID]; ok {
				cp.Sweet = copySweet(s)
			}
			list = append(list, &cp)
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, err
}

// ---- restocks ----

// RestockRepo implementación en memoria de RestockRepository.
type RestockRepo struct{ a access }

func (r *RestockRepo) Create(_ context.Context, rs *entity.Restock) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.sweets[rs.SweetID]; !ok {
			return domain.ErrSweetNotFound
		}
		st.restockSeq++
		rs.ID = st.restockSeq
		if rs.CreatedAt.IsZero() {
			rs.CreatedAt = time.Now()
		}
		cp := *rs
		st.restocks = append(st.restocks, &cp)
		return nil
	})
}

func (r *RestockRepo) List(_ context.Context, sweetID *int64) ([]*entity.Restock, error) {
	list := make([]*entity.Restock, 0)
	err := r.a.read(func(st *state) error {
		for _, rs := range st.restocks {
			if sweetID != nil && rs.SweetID != *sweetID {
				continue
			}
			cp := *rs
			list = append(list, &cp)
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].RestockDate.Equal(list[j].RestockDate) {
			return list[i].RestockDate.After(list[j].RestockDate)
		}
		return list[i].ID > list[j].ID
	})
	return list, err
}
