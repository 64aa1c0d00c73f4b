package auth

import (
	"testing"
	"time"

	"bloghub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_IssueAndParse(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret")
	user := &models.User{ID: 7, Email: "reader@example.com"}

	access, refresh, err := m.IssuePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := m.Parse(access, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, TypeAccess, claims.Type)
	assert.NotEmpty(t, claims.JTI)

	claims, err = m.Parse(refresh, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.Type)
}

func TestJWTManager_Parse_WrongType(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret")
	access, err := m.IssueAccess(1, "a@example.com")
	require.NoError(t, err)

	_, err = m.Parse(access, TypeRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTManager_Parse_WrongSecret(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret")
	access, err := m.IssueAccess(1, "a@example.com")
	require.NoError(t, err)

	other := NewJWTManager("another-secret")
	_, err = other.Parse(access, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTManager_Parse_Expired(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret")
	token, err := m.IssueActivation(3)
	require.NoError(t, err)

	// Move the clock past the activation TTL.
	m.now = func() time.Time { return time.Now().Add(ActivationTokenTTL + time.Hour) }
	_, err = m.Parse(token, TypeActivation)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTManager_ActivationCarriesNoEmail(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret")
	token, err := m.IssueActivation(3)
	require.NoError(t, err)

	claims, err := m.Parse(token, TypeActivation)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Empty(t, claims.Email)
}
