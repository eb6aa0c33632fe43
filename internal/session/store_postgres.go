package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// PostgresStore implements Store over PostgreSQL (refresh_tokens).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed refresh-token store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a refresh-token row.
func (s *PostgresStore) Create(ctx context.Context, adminID, token string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (id, admin_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
	`, ulid.Make().String(), adminID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("session.Create: %w", err)
	}
	return nil
}

// Find loads a refresh-token row by exact value.
func (s *PostgresStore) Find(ctx context.Context, token string) (RefreshToken, error) {
	var row RefreshToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, admin_id, token, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`, token).Scan(&row.ID, &row.AdminID, &row.Token, &row.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RefreshToken{}, ErrTokenNotFound
	}
	if err != nil {
		return RefreshToken{}, fmt.Errorf("session.Find: %w", err)
	}
	return row, nil
}

// Delete removes a refresh-token row by value. Absent rows are a no-op.
func (s *PostgresStore) Delete(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM refresh_tokens
		WHERE token = $1
	`, token); err != nil {
		return fmt.Errorf("session.Delete: %w", err)
	}
	return nil
}
