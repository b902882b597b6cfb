package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartCatalog/business/recommend"
	"smartCatalog/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revocationList struct {
	revoked map[string]bool
	err     error
}

func (r revocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.revoked[tokenID], nil
}

func newAuthServer(revocations RevocationChecker) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}, AuthMiddleware(revocations))
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, AuthMiddleware(revocations), AdminOnly())
	return e
}

func get(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	utils.InitJWT("test-secret")
	token, err := utils.GenerateJWT("u-42", utils.RoleCustomer, time.Hour)
	require.NoError(t, err)

	e := newAuthServer(nil)

	rec := get(e, "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"u-42"`)

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + token},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(e, "/me", tt.auth).Code)
		})
	}
}

func TestAuthMiddlewareRevocation(t *testing.T) {
	utils.InitJWT("test-secret")
	token, err := utils.GenerateJWT("u-1", utils.RoleCustomer, time.Hour)
	require.NoError(t, err)
	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)

	revoked := newAuthServer(revocationList{revoked: map[string]bool{claims.ID: true}})
	assert.Equal(t, http.StatusUnauthorized, get(revoked, "/me", "Bearer "+token).Code)

	// lookup failures let the request through
	broken := newAuthServer(revocationList{err: errors.New("redis down")})
	assert.Equal(t, http.StatusOK, get(broken, "/me", "Bearer "+token).Code)
}

func TestAdminOnly(t *testing.T) {
	utils.InitJWT("test-secret")
	customer, err := utils.GenerateJWT("u-1", utils.RoleCustomer, time.Hour)
	require.NoError(t, err)
	admin, err := utils.GenerateJWT("a-1", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)

	e := newAuthServer(nil)
	assert.Equal(t, http.StatusForbidden, get(e, "/admin", "Bearer "+customer).Code)
	assert.Equal(t, http.StatusOK, get(e, "/admin", "Bearer "+admin).Code)
}

func TestTraceID(t *testing.T) {
	e := echo.New()
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = recommend.TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, TraceID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-7")
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-7", seen)
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	rec := get(e, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Found")
}
