package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gracechapel/churchsite/internal/config"
	"github.com/gracechapel/churchsite/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser seeds the configured admin account so a fresh deploy has
// someone who can publish. No-op when the env vars are unset or the
// account already exists.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	email := security.NormalizeEmail(cfg.AdminEmail)

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, first_name, last_name, password_hash, role, is_verified, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,'admin',TRUE,$6,$7)`,
		uuid.NewString(), email, cfg.AdminFirstName, cfg.AdminLastName, hash, now, now,
	)

	return err
}
