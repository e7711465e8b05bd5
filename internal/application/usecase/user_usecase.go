package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// PasswordHasher lo implementa auth.AuthUseCase (bcrypt al costo configurado).
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// UserUseCase aplica reglas de negocio para usuarios fuera de la API pública (alta de administradores).
type UserUseCase struct {
	repo   repository.UserRepository
	hasher PasswordHasher
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, hasher PasswordHasher) *UserUseCase {
	return &UserUseCase{repo: repo, hasher: hasher}
}

// GetByID obtiene un usuario por ID. ErrUserNotFound si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(user), nil
}

// EnsureAdmin promueve a Admin el usuario con ese email o, si no existe, lo crea con la contraseña dada.
// created indica si el usuario es nuevo. La contraseña de un usuario existente no se modifica.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, email, password string) (out *dto.UserResponse, created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, domain.NewValidationError("email", "es requerido")
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			if err := uc.repo.UpdateRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
				return nil, false, err
			}
			existing.Role = entity.RoleAdmin
		}
		return entityToUserResponse(existing), false, nil
	}

	if len(password) < 8 {
		return nil, false, domain.NewValidationError("password", "debe tener al menos 8 caracteres")
	}
	hash, err := uc.hasher.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	now := time.Now()
	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return entityToUserResponse(user), true, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}
