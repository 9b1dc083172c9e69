package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduvault/service/internal/config"
)

// ErrInvalidCredentials is returned for an unknown username or wrong
// password. The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Token is the login response payload.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
}

// Service contains the business logic for credential authentication.
type Service struct {
	repo *Repository
	cfg  *config.Config
}

// NewService creates a new auth Service.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Login verifies the username/password pair and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	cred, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(cred)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Token{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        cred.Role,
		FullName:    cred.FullName,
	}, nil
}

// IssueToken creates a signed JWT for the given credential, expiring after
// the configured number of minutes.
func (s *Service) IssueToken(cred *Credential) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       cred.Username,
		"user_id":   cred.UserID,
		"role":      cred.Role,
		"full_name": cred.FullName,
		"iat":       now.Unix(),
		"exp":       now.Add(time.Duration(s.cfg.JWTExpireMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(s.signingMethod(), claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// signingMethod resolves the configured algorithm, restricted to the HMAC
// family since the secret is symmetric. Unknown or non-HMAC values fall
// back to HS256.
func (s *Service) signingMethod() jwt.SigningMethod {
	if m := jwt.GetSigningMethod(s.cfg.JWTAlgorithm); m != nil {
		if _, ok := m.(*jwt.SigningMethodHMAC); ok {
			return m
		}
	}
	return jwt.SigningMethodHS256
}
