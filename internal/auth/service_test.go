package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduvault/service/internal/config"
)

func testService() *Service {
	return &Service{cfg: &config.Config{
		JWTSecret:        "test-secret",
		JWTExpireMinutes: 120,
	}}
}

func TestIssueTokenClaims(t *testing.T) {
	svc := testService()
	cred := &Credential{
		UserID:   "e7eedc79-0707-4fe4-8734-526b7ef13a7b",
		Username: "admin",
		FullName: "Admin",
		Role:     "admin",
	}

	signed, err := svc.IssueToken(cred)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, cred.UserID, claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "Admin", claims["full_name"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	expAt := time.Unix(int64(exp), 0)
	assert.WithinDuration(t, time.Now().Add(120*time.Minute), expAt, time.Minute)
}

func TestIssueTokenWrongSecretRejected(t *testing.T) {
	svc := testService()
	signed, err := svc.IssueToken(&Credential{Username: "admin", Role: "admin"})
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestIssueTokenConfiguredAlgorithm(t *testing.T) {
	svc := &Service{cfg: &config.Config{
		JWTSecret:        "test-secret",
		JWTAlgorithm:     "HS512",
		JWTExpireMinutes: 120,
	}}

	signed, err := svc.IssueToken(&Credential{Username: "admin", Role: "admin"})
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "HS512", token.Method.Alg())
}

func TestSigningMethodFallsBackToHS256(t *testing.T) {
	for _, alg := range []string{"", "none", "RS256", "ES256", "bogus"} {
		svc := &Service{cfg: &config.Config{JWTSecret: "test-secret", JWTAlgorithm: alg}}
		assert.Equal(t, jwt.SigningMethodHS256, svc.signingMethod(), alg)
	}
	svc := &Service{cfg: &config.Config{JWTSecret: "test-secret", JWTAlgorithm: "HS384"}}
	assert.Equal(t, jwt.SigningMethodHS384, svc.signingMethod())
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := &Service{cfg: &config.Config{JWTSecret: "test-secret", JWTExpireMinutes: -1}}
	signed, err := svc.IssueToken(&Credential{Username: "admin", Role: "admin"})
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	if token != nil {
		assert.False(t, token.Valid)
	}
}
