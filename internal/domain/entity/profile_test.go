package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// isAdmin debe ser true solo cuando el rol es admin, y false (no error) con perfil nil.
func TestProfile_IsAdmin(t *testing.T) {
	admin := &entity.Profile{ID: "1", Role: entity.RoleAdmin}
	customer := &entity.Profile{ID: "2", Role: entity.RoleCustomer}
	var ninguno *entity.Profile

	assert.True(t, admin.IsAdmin())
	assert.False(t, customer.IsAdmin())
	assert.False(t, ninguno.IsAdmin(), "perfil nil no otorga privilegios")
}

func TestParseRole(t *testing.T) {
	r, err := entity.ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, r)

	r, err = entity.ParseRole("customer")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, r)

	_, err = entity.ParseRole("superuser")
	assert.Error(t, err, "roles fuera de la enumeración deben rechazarse")

	_, err = entity.ParseRole("")
	assert.Error(t, err)
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		st, err := entity.ParseOrderStatus(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, st.String())
	}
	_, err := entity.ParseOrderStatus("returned")
	assert.Error(t, err)
}
