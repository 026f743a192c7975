package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

func TestNewDemoDirectory_UsuariosYRoles(t *testing.T) {
	d, err := NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)

	admin, err := d.FindByUsername("Admin ")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(DemoPassword)))

	for _, name := range []string{"user", "bart", "mae", "angela", "chris", "andre", "akeem", "guest"} {
		u, err := d.FindByUsername(name)
		require.NoError(t, err)
		require.NotNil(t, u, name)
		assert.Equal(t, entity.RoleUser, u.Role, name)
	}

	byID, err := d.GetByID("3")
	require.NoError(t, err)
	assert.Equal(t, "Bart", byID.Name)
}

func TestUserDirectory_Inexistente(t *testing.T) {
	d, err := NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)

	u, err := d.FindByUsername("homer")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = d.GetByID("99")
	assert.NoError(t, err)
	assert.Nil(t, u)
}
