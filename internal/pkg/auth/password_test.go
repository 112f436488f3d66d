package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordManager_HashAndVerify(t *testing.T) {
	pm := NewPasswordManager(bcrypt.MinCost)

	hash, err := pm.HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", hash)
	assert.True(t, IsHash(hash))

	assert.NoError(t, pm.VerifyPassword("pw", hash))
	assert.Error(t, pm.VerifyPassword("pw2", hash))
}

func TestPasswordManager_Validate(t *testing.T) {
	pm := NewPasswordManager(bcrypt.MinCost)

	_, err := pm.HashPassword("")
	assert.Error(t, err)

	_, err = pm.HashPassword(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestIsHash(t *testing.T) {
	assert.False(t, IsHash("123456"))
	assert.False(t, IsHash(""))
}

func TestNewPasswordManager_BadCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordManager(99).cost)
}
