package server

import (
	"net/http"
	"testing"
	"time"

	"bloghub/internal/cache"
	"bloghub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterActivateLoginFlow(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/accounts/register", "", map[string]any{
		"email":            "new@example.com",
		"first_name":       "New",
		"last_name":        "Reader",
		"password":         "passw0rd",
		"confirm_password": "passw0rd",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "new@example.com", body["email"])
	assert.Equal(t, false, body["is_verified"])

	// Unverified users can log in with the opaque token scheme
	resp = doRequest(t, app, http.MethodPost, "/api/v1/accounts/token/login", "", map[string]any{
		"email":    "new@example.com",
		"password": "passw0rd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])

	// but not with JWT until the account is verified
	resp = doRequest(t, app, http.MethodPost, "/api/v1/accounts/jwt/create", "", map[string]any{
		"email":    "new@example.com",
		"password": "passw0rd",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "User is not verified", body["error"])

	var user models.User
	require.NoError(t, s.db.Where("email = ?", "new@example.com").First(&user).Error)
	token, err := s.jwt.IssueActivation(user.ID)
	require.NoError(t, err)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/accounts/activation/confirm/"+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Thank you for your email confirmation. Now you can login your account.", body["detail"])

	// Confirming twice fails
	resp = doRequest(t, app, http.MethodGet, "/api/v1/accounts/activation/confirm/"+token, "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Your account is already verified.", body["error"])

	resp = doRequest(t, app, http.MethodPost, "/api/v1/accounts/jwt/create", "", map[string]any{
		"email":    "new@example.com",
		"password": "passw0rd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])
}

func TestTokenLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)
	createTestUser(t, s.db, "reader@example.com", false)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/accounts/token/login", "", map[string]any{
		"email":    "reader@example.com",
		"password": "wrong-pass1",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Unable to log in with provided credentials.", body["error"])
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)
	user, key := createTestUser(t, s.db, "reader@example.com", false)

	t.Run("rejects anonymous requests", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/v1/accounts/profile", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Authentication credentials were not provided.", body["error"])
	})

	t.Run("rejects an unknown opaque token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/v1/accounts/profile", "0000000000000000000000000000000000000000", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepts the opaque token scheme", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/v1/accounts/profile", key, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "reader@example.com", body["email"])
	})

	t.Run("accepts a bearer access token", func(t *testing.T) {
		access, err := s.jwt.IssueAccess(user.ID, user.Email)
		require.NoError(t, err)

		req := newBearerRequest(t, http.MethodGet, "/api/v1/accounts/profile", access)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("rejects a blacklisted bearer token", func(t *testing.T) {
		access, err := s.jwt.IssueAccess(user.ID, user.Email)
		require.NoError(t, err)
		claims, err := s.jwt.Parse(access, "")
		require.NoError(t, err)
		require.NoError(t, cache.RevokeJWT(t.Context(), s.redis, claims.JTI, time.Minute))

		req := newBearerRequest(t, http.MethodGet, "/api/v1/accounts/profile", access)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Token has been revoked", body["error"])
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)
	_, key := createTestUser(t, s.db, "reader@example.com", false)

	resp := doRequest(t, app, http.MethodPut, "/api/v1/accounts/change-password", key, map[string]any{
		"old_password":     "nope-wrong1",
		"new_password":     "n3w-password",
		"confirm_password": "n3w-password",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Wrong password.", body["error"])

	resp = doRequest(t, app, http.MethodPut, "/api/v1/accounts/change-password", key, map[string]any{
		"old_password":     "passw0rd",
		"new_password":     "n3w-password",
		"confirm_password": "n3w-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Password changed successfully", body["detail"])

	// Old password no longer works
	resp = doRequest(t, app, http.MethodPost, "/api/v1/accounts/token/login", "", map[string]any{
		"email":    "reader@example.com",
		"password": "passw0rd",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)
	user, _ := createTestUser(t, s.db, "reader@example.com", false)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/accounts/reset-password", "", map[string]any{
		"email": "reader@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "We have sent you a link to reset your password", body["success"])

	// Build the link parts the same way the email does
	var fresh models.User
	require.NoError(t, s.db.First(&fresh, user.ID).Error)
	uid, token := resetLinkParts(s, &fresh)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/accounts/reset-password/confirm/"+uid+"/"+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPut, "/api/v1/accounts/reset-password/confirm/"+uid+"/"+token, "", map[string]any{
		"password":         "n3w-password",
		"confirm_password": "n3w-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "You have successfully reset your password.", body["detail"])

	// The consumed link is dead
	resp = doRequest(t, app, http.MethodGet, "/api/v1/accounts/reset-password/confirm/"+uid+"/"+token, "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "The reset link is invalid", body["error"])
}

func TestTokenLogout(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)
	_, key := createTestUser(t, s.db, "reader@example.com", false)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/accounts/token/logout", key, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// The deleted token no longer authenticates
	resp = doRequest(t, app, http.MethodGet, "/api/v1/accounts/profile", key, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestBearerLogoutRevokesToken(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)
	user, _ := createTestUser(t, s.db, "reader@example.com", false)

	access, err := s.jwt.IssueAccess(user.ID, user.Email)
	require.NoError(t, err)

	req := newBearerRequest(t, http.MethodGet, "/api/v1/accounts/profile", access)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	req = newBearerRequest(t, http.MethodPost, "/api/v1/accounts/token/logout", access)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// The revoked jti no longer authenticates
	req = newBearerRequest(t, http.MethodGet, "/api/v1/accounts/profile", access)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Token has been revoked", body["error"])
}
