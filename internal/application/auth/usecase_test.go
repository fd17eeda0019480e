package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-pos/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	st := memory.NewStore()
	users := usecase.NewUserUseCase(st.Users(), nil)
	_, err := users.Create(context.Background(), dto.CreateUserRequest{Username: "caja1", Password: "clave123", Role: entity.RoleSaler})
	require.NoError(t, err)
	return auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "tienda"})
}

func TestLogin_OK(t *testing.T) {
	uc := setup(t)
	res, err := uc.Login(context.Background(), dto.LoginRequest{Username: "caja1", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, "caja1", res.Username)
	assert.Equal(t, entity.RoleSaler, res.Role)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "caja1", claims.Username)
	assert.Equal(t, entity.RoleSaler, claims.Role)
}

func TestLogin_Errores(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "caja1", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
