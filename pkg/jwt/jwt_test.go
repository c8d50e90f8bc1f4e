package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewManager("test-secret", 60)

	coopID := int64(5)
	token, err := m.GenerateToken(12, "admin@coop.cm", "cooperative", &coopID)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.UserID)
	assert.Equal(t, "admin@coop.cm", claims.Email)
	assert.Equal(t, "cooperative", claims.Role)
	require.NotNil(t, claims.CooperativeID)
	assert.Equal(t, int64(5), *claims.CooperativeID)
}

func TestValidateToken_AdminHasNoCooperative(t *testing.T) {
	m := NewManager("test-secret", 60)

	token, err := m.GenerateToken(1, "root@harvest.cm", "admin", nil)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.CooperativeID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", 60).GenerateToken(1, "a@b.cm", "admin", nil)
	require.NoError(t, err)

	_, err = NewManager("secret-b", 60).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -1)

	token, err := m.GenerateToken(1, "a@b.cm", "admin", nil)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := NewManager("test-secret", 60).ValidateToken("not-a-token")
	assert.Error(t, err)
}
