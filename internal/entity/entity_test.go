package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDelete(t *testing.T) {
	u := NewUser("user@example.com", "$2a$10$hash", "Jane", "010")
	assert.True(t, u.IsNew())
	assert.False(t, u.IsRemoved())

	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u.SoftDelete(first)
	require.True(t, u.IsRemoved())
	assert.Equal(t, first, *u.RemovedAt)

	u.SoftDelete(first.Add(time.Hour))
	assert.Equal(t, first, *u.RemovedAt)
}

func TestUserMutators(t *testing.T) {
	u := NewUser("user@example.com", "old", "Jane", "010")

	u.ChangePassword("new")
	u.UpdateProfile("Janet")

	assert.Equal(t, "new", u.Password)
	assert.Equal(t, "Janet", u.Name)
	assert.Equal(t, "users", u.TableName())
}

func TestTenantSetAsMain(t *testing.T) {
	tn := NewTenant("user-1", "space-1", "ADMIN")
	assert.False(t, tn.Main)

	tn.SetAsMain()
	assert.True(t, tn.Main)
	assert.Equal(t, "tenants", tn.TableName())
}
