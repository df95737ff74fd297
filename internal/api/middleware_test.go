package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistacare/clinic-api/internal/auth"
	"github.com/vistacare/clinic-api/internal/tenant"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates one when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	})
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	tenantID := uuid.New()
	principal := tenant.Principal{ID: uuid.New(), Role: tenant.RoleAdmin, TenantID: &tenantID}

	var got tenant.Principal
	var reached bool
	protected := AuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		got, _ = PrincipalFromContext(r.Context())
	}))

	t.Run("valid token passes principal through", func(t *testing.T) {
		token, err := issuer.Issue(principal)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		protected.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, reached)
		assert.Equal(t, principal.ID, got.ID)
		assert.Equal(t, principal.Role, got.Role)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer scheme is rejected", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestClientIP(t *testing.T) {
	t.Run("prefers first forwarded address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		assert.Equal(t, "203.0.113.9", clientIP(req))
	})

	t.Run("falls back to remote addr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:44123"
		assert.Equal(t, "198.51.100.7", clientIP(req))
	})
}
