package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "auth-usecase-test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, bcrypt.MinCost)
	return uc, store
}

func TestRegister_NormalizaEmailYNoExponeHash(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	out, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "  Ana@Example.COM ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, entity.RoleUser, out.Role)

	u, err := store.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEqual(t, "secreto123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreto123")))
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ANA@example.com", Password: "otraClave99"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validacion(t *testing.T) {
	uc, _ := newAuth(t)
	tests := []struct {
		name string
		in   dto.RegisterRequest
	}{
		{"email vacío", dto.RegisterRequest{Password: "secreto123"}},
		{"email mal formado", dto.RegisterRequest{Email: "no-es-email", Password: "secreto123"}},
		{"password vacío", dto.RegisterRequest{Email: "ana@example.com"}},
		{"password de más de 72", dto.RegisterRequest{Email: "ana@example.com", Password: strings.Repeat("x", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.RegisterUser(context.Background(), tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLogin_EmiteTokenConIdentidad(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	reg, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "luis@example.com", Password: "secreto123"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "LUIS@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, out.ID)
	require.NotEmpty(t, out.Token)

	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)
	assert.Equal(t, "luis@example.com", claims.Email)
	assert.Equal(t, entity.RoleUser, claims.Role)
}

func TestLogin_MismoErrorParaEmailYPassword(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "eva@example.com", Password: "secreto123"})
	require.NoError(t, err)

	_, errPass := uc.Login(ctx, dto.LoginRequest{Email: "eva@example.com", Password: "incorrecta"})
	_, errEmail := uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto123"})

	assert.ErrorIs(t, errPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, errPass.Error(), errEmail.Error())
}

func TestRegister_SoloExigePresenciaDePassword(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	out, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, out.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.com", Password: "pass"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "c@d.com", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
