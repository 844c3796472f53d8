package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-jwt-secret"

func authRequest(t *testing.T, mw echo.MiddlewareFunc, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, mw(next)(e.NewContext(req, rec)))
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	token, err := IssueToken(jwtSecret, "SV001", RoleStudent, time.Hour)
	require.NoError(t, err)

	rec := authRequest(t, JWTAuth(jwtSecret, RoleStudent), token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	rec := authRequest(t, JWTAuth(jwtSecret, RoleStudent), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("other-secret", "SV001", RoleStudent, time.Hour)
	require.NoError(t, err)

	rec := authRequest(t, JWTAuth(jwtSecret, RoleStudent), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongRole(t *testing.T) {
	token, err := IssueToken(jwtSecret, "SV001", RoleStudent, time.Hour)
	require.NoError(t, err)

	rec := authRequest(t, JWTAuth(jwtSecret, RoleAdmin), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	token, err := IssueToken(jwtSecret, "SV001", RoleStudent, -time.Minute)
	require.NoError(t, err)

	rec := authRequest(t, JWTAuth(jwtSecret, RoleStudent), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
