// Command seed upserts the default credential records. Intended for local
// development and fresh deployments.
package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduvault/service/internal/config"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := upsertUser(ctx, pool, "admin", "Admin", "A1", "admin", "123"); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := upsertUser(ctx, pool, "user", "User", "A1", "user", "123"); err != nil {
		log.Fatalf("seed user: %v", err)
	}

	log.Println("seed OK: admin/123 and user/123")
}

// upsertUser inserts the user or refreshes an existing row's profile and password.
func upsertUser(ctx context.Context, pool *pgxpool.Pool, username, fullName, className, role, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (username, full_name, class_name, role, password_hash, date_of_birth)
		 VALUES ($1, $2, $3, $4::user_role, $5, '2000-01-01')
		 ON CONFLICT (username)
		 DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   class_name = EXCLUDED.class_name,
		   role = EXCLUDED.role,
		   password_hash = EXCLUDED.password_hash`,
		username, fullName, className, role, string(hash),
	)
	return err
}
