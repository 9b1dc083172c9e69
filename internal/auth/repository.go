// Package auth handles credential login and bearer-token issuing.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Credential is a stored login record.
type Credential struct {
	UserID       string
	Username     string
	FullName     string
	Role         string
	PasswordHash string
}

// ErrNotFound is returned when no credential exists for the username.
var ErrNotFound = errors.New("user not found")

// Repository handles credential lookups.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new auth Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByUsername fetches a credential record by exact username match.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Credential, error) {
	c := &Credential{}
	err := r.db.QueryRow(ctx,
		`SELECT user_id, username, full_name, role::text, password_hash
		 FROM users WHERE username = $1`,
		username,
	).Scan(&c.UserID, &c.Username, &c.FullName, &c.Role, &c.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return c, nil
}
