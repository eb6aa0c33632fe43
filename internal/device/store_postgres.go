package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL (whitelisted_devices).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed whitelist store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const pgUniqueViolation = "23505"

// Insert adds a whitelist row.
func (s *PostgresStore) Insert(ctx context.Context, d Device) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO whitelisted_devices (
			id, device_hash, user_name, label,
			owner_admin_id, registered_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.Hash, d.UserName, d.Label, d.OwnerAdminID, d.RegisteredBy, d.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDeviceExists
		}
		return fmt.Errorf("device.Insert: %w", err)
	}
	return nil
}

// FindByHash loads a device by exact hash together with the owning admin's
// email.
func (s *PostgresStore) FindByHash(ctx context.Context, hash string) (Device, string, error) {
	var (
		d        Device
		provider string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT
			wd.id, wd.device_hash, wd.user_name, wd.label,
			wd.owner_admin_id, wd.registered_by, wd.created_at,
			a.email
		FROM whitelisted_devices wd
		JOIN admins a ON wd.owner_admin_id = a.id
		WHERE wd.device_hash = $1
	`, hash).Scan(
		&d.ID,
		&d.Hash,
		&d.UserName,
		&d.Label,
		&d.OwnerAdminID,
		&d.RegisteredBy,
		&d.CreatedAt,
		&provider,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Device{}, "", ErrDeviceNotFound
	}
	if err != nil {
		return Device{}, "", fmt.Errorf("device.FindByHash: %w", err)
	}
	return d, provider, nil
}

// ListByOwner returns the owner's devices, newest first.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Device, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, device_hash, user_name, label,
		       owner_admin_id, registered_by, created_at
		FROM whitelisted_devices
		WHERE owner_admin_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("device.ListByOwner: %w", err)
	}
	defer rows.Close()

	var out []Device
	for rows.Next() {
		var d Device
		if err := rows.Scan(
			&d.ID,
			&d.Hash,
			&d.UserName,
			&d.Label,
			&d.OwnerAdminID,
			&d.RegisteredBy,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("device.ListByOwner: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("device.ListByOwner: %w", err)
	}
	return out, nil
}

// DeleteOwned removes the device only when id and owner both match.
func (s *PostgresStore) DeleteOwned(ctx context.Context, id, ownerID string) error {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM whitelisted_devices
		WHERE id = $1 AND owner_admin_id = $2
	`, id, ownerID); err != nil {
		return fmt.Errorf("device.DeleteOwned: %w", err)
	}
	return nil
}
