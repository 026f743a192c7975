package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/stock-tracker/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func newUseCase(t *testing.T) *AuthUseCase {
	t.Helper()
	dir, err := memory.NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthUseCase(dir, JWTConfig{Secret: testSecret, ExpMinutes: 10, Issuer: "test"})
}

func TestLogin_GeneraTokenConRol(t *testing.T) {
	uc := newUseCase(t)

	res, err := uc.Login(dto.LoginRequest{Username: "bart", Password: memory.DemoPassword})
	require.NoError(t, err)
	assert.Equal(t, "Bart", res.User.Name)
	assert.Equal(t, entity.RoleUser, res.User.Role)

	id, name, role, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
	assert.Equal(t, "Bart", name)
	assert.Equal(t, entity.RoleUser, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Username: "homer", Password: memory.DemoPassword})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	uc := newUseCase(t)

	u, err := uc.Me(entity.Session{UserID: "1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)

	_, err = uc.Me(entity.Session{UserID: "99"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
