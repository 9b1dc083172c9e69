package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eduvault/service/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// claimsKey is the context key for the authenticated caller's token claims.
const claimsKey contextKey = "claims"

// ClaimsFromContext returns the verified token claims stored by RequireAuth.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(jwt.MapClaims)
	return claims, ok
}

// RequireAuth returns middleware that validates a Bearer JWT and injects the
// verified claims into the request context.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "missing bearer token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				response.Unauthorized(w, "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				response.Unauthorized(w, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to callers whose role claim is "admin",
// compared case-insensitively. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "missing bearer token")
			return
		}
		if !IsAdmin(claims) {
			response.Forbidden(w, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IsAdmin reports whether the claims carry the admin role.
func IsAdmin(claims jwt.MapClaims) bool {
	role, _ := claims["role"].(string)
	return strings.EqualFold(role, "admin")
}
