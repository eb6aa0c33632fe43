package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// PostgresStore implements admin persistence over PostgreSQL.
// The pgx pool is owned by the caller; the store never closes it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// Create inserts a new admin row.
func (s *PostgresStore) Create(ctx context.Context, email, subjectID string) (Admin, error) {
	const op = "identity.Create"

	admin := Admin{
		ID:        ulid.Make().String(),
		Email:     email,
		SubjectID: subjectID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO admins (id, email, subject_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, admin.ID, admin.Email, admin.SubjectID, admin.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Admin{}, ConflictError{Op: op, Field: conflictField(pgErr.ConstraintName)}
		}
		return Admin{}, fmt.Errorf("%s: %w", op, err)
	}

	return admin, nil
}

// GetBySubjectID loads an admin by subject ID.
func (s *PostgresStore) GetBySubjectID(ctx context.Context, subjectID string) (Admin, error) {
	return s.get(ctx, "identity.GetBySubjectID", `
		SELECT id, email, subject_id, created_at
		FROM admins
		WHERE subject_id = $1
	`, subjectID)
}

// GetByID loads an admin by surrogate key.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (Admin, error) {
	return s.get(ctx, "identity.GetByID", `
		SELECT id, email, subject_id, created_at
		FROM admins
		WHERE id = $1
	`, id)
}

func (s *PostgresStore) get(ctx context.Context, op, query, arg string) (Admin, error) {
	var admin Admin
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Email,
		&admin.SubjectID,
		&admin.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	if err != nil {
		return Admin{}, fmt.Errorf("%s: %w", op, err)
	}
	return admin, nil
}

func conflictField(constraint string) string {
	switch constraint {
	case "admins_email_key":
		return "email"
	case "admins_subject_id_key":
		return "subject_id"
	default:
		return ""
	}
}
