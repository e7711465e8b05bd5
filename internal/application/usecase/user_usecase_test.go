package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserUC(t *testing.T) (*usecase.UserUseCase, *auth.AuthUseCase) {
	t.Helper()
	store := memory.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: "s", ExpMinutes: 60}, bcrypt.MinCost)
	return usecase.NewUserUseCase(store.Users(), authUC), authUC
}

func TestEnsureAdmin_CreaNuevo(t *testing.T) {
	uc, authUC := newUserUC(t)
	ctx := context.Background()

	out, created, err := uc.EnsureAdmin(ctx, " Root@Example.com ", "secreto123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@example.com", out.Email)
	assert.Equal(t, entity.RoleAdmin, out.Role)

	login, err := authUC.Login(ctx, dto.LoginRequest{Email: "root@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, login.Role)
}

func TestEnsureAdmin_PromueveExistente(t *testing.T) {
	uc, authUC := newUserUC(t)
	ctx := context.Background()
	reg, err := authUC.RegisterUser(ctx, dto.RegisterRequest{Email: "eva@example.com", Password: "secreto123"})
	require.NoError(t, err)
	require.Equal(t, entity.RoleUser, reg.Role)

	out, created, err := uc.EnsureAdmin(ctx, "eva@example.com", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, reg.ID, out.ID)

	got, err := uc.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)

	// la contraseña previa sigue sirviendo
	_, err = authUC.Login(ctx, dto.LoginRequest{Email: "eva@example.com", Password: "secreto123"})
	assert.NoError(t, err)
}

func TestEnsureAdmin_Validacion(t *testing.T) {
	uc, _ := newUserUC(t)
	ctx := context.Background()

	_, _, err := uc.EnsureAdmin(ctx, "", "secreto123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = uc.EnsureAdmin(ctx, "nuevo@example.com", "corta")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GetByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
