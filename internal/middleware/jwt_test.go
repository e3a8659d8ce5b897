package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	rec, _ := invoke(t, JWTMiddleware, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareBadFormat(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	rec, _ := invoke(t, JWTMiddleware, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareInvalidSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-different-secret")
	token := signTestToken(t, jwt.MapClaims{
		"user_id": "u1",
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec, _ := invoke(t, JWTMiddleware, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	token := signTestToken(t, jwt.MapClaims{
		"user_id": "u1",
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	rec, _ := invoke(t, JWTMiddleware, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareSetsIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	token := signTestToken(t, jwt.MapClaims{
		"user_id": "u1",
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec, c := invoke(t, JWTMiddleware, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", c.Get("user_id"))
	assert.Equal(t, "user", c.Get("role"))
}

func TestAdminGuardRejectsUserRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "user")

	handler := AdminGuard(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminGuardAllowsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "admin")

	handler := AdminGuard(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
