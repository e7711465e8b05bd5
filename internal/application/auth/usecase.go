package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	jwtCfg     JWTConfig
	bcryptCost int
	// dummyHash se compara cuando el email no existe, para que el tiempo de respuesta no delate el caso.
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth. bcryptCost fuera de rango usa bcrypt.DefaultCost.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, bcryptCost int) *AuthUseCase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("sweetshop-dummy-password"), bcryptCost)
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, bcryptCost: bcryptCost, dummyHash: dummy}
}

// NormalizeEmail recorta espacios y pasa a minúsculas; así se guarda y se busca.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashea con bcrypt al costo configurado.
func (uc *AuthUseCase) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// RegisterUser crea un usuario con rol User: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := uc.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.NewValidationError("password", "debe tener como máximo 72 bytes")
		}
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Create también traduce la violación de unicidad (registro concurrente) a ErrEmailAlreadyExists.
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna identidad + token.
// Email desconocido y password incorrecto devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		UserResponse: *toUserResponse(user),
		Token:        token,
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}
