// Package identity verifies federated identity assertions and persists
// admin accounts.
//
// The verifier delegates signature and audience checks to the external
// identity provider. Everything that can go wrong during verification is
// collapsed into a single opaque failure so callers cannot distinguish a bad
// assertion from an unknown account.
package identity

import (
	"context"
	"time"
)

// Identity is the result of a successful assertion verification:
// a stable subject identifier plus the contact address asserted by the
// identity provider. Both are guaranteed non-empty.
type Identity struct {
	SubjectID string
	Email     string
}

// Verifier validates an externally issued identity assertion.
type Verifier interface {
	// Verify checks the assertion and extracts the caller's identity.
	// Any failure is reported as ErrAuthenticationFailed; the underlying
	// cause is logged, never returned.
	Verify(ctx context.Context, assertion string) (Identity, error)
}

// Admin is a dashboard administrator account. Admins are created on
// registration or on first login and are never updated or deleted in
// normal operation.
type Admin struct {
	ID        string
	Email     string
	SubjectID string
	CreatedAt time.Time
}

// Store abstracts admin persistence.
type Store interface {
	// Create inserts a new admin row. A uniqueness violation on email or
	// subject ID is reported as a ConflictError.
	Create(ctx context.Context, email, subjectID string) (Admin, error)

	// GetBySubjectID loads an admin by the identity provider's subject ID.
	// Returns ErrNotFound when no such admin exists.
	GetBySubjectID(ctx context.Context, subjectID string) (Admin, error)

	// GetByID loads an admin by its surrogate key.
	// Returns ErrNotFound when no such admin exists.
	GetByID(ctx context.Context, id string) (Admin, error)
}
