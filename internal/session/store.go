package session

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned by Store.Find for unknown token values.
// It never reaches API callers directly; the service maps it to ErrForbidden.
var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshToken mirrors a refresh_tokens row. One row per live session;
// an admin may hold several concurrently.
type RefreshToken struct {
	ID        string
	AdminID   string
	Token     string
	ExpiresAt time.Time
}

// Store abstracts refresh-token persistence. Rows are immutable: created on
// login, deleted on logout, and otherwise left to expire lazily via the
// token's own expiry claim.
type Store interface {
	// Create persists a freshly issued refresh token.
	Create(ctx context.Context, adminID, token string, expiresAt time.Time) error

	// Find loads a stored token by its exact value.
	// Returns ErrTokenNotFound when the value was never issued or has been
	// deleted.
	Find(ctx context.Context, token string) (RefreshToken, error)

	// Delete removes a stored token by value. Deleting an absent token is
	// not an error.
	Delete(ctx context.Context, token string) error
}
