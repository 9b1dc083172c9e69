package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "admin",
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "admin", claims["sub"])
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(testSecret)(RequireAdmin(inner))
}

func doRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/documents", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rec := doRequest(protected(t), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	rec := doRequest(protected(t), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	rec := doRequest(protected(t), "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	rec := doRequest(protected(t), "Bearer "+signToken(t, "admin", -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	rec := doRequest(protected(t), "Bearer "+signToken(t, "user", time.Hour))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminAcceptsAdmin(t *testing.T) {
	rec := doRequest(protected(t), "Bearer "+signToken(t, "admin", time.Hour))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminCaseInsensitive(t *testing.T) {
	rec := doRequest(protected(t), "Bearer "+signToken(t, "Admin", time.Hour))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(jwt.MapClaims{"role": "admin"}))
	assert.True(t, IsAdmin(jwt.MapClaims{"role": "ADMIN"}))
	assert.False(t, IsAdmin(jwt.MapClaims{"role": "user"}))
	assert.False(t, IsAdmin(jwt.MapClaims{}))
}
