package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed is the single error returned for any failed
	// assertion verification. It is deliberately opaque: malformed input,
	// bad signature, wrong audience, expiry, and provider outages all look
	// identical to the caller.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrNotFound is returned when a referenced admin row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is the sentinel wrapped by ConflictError.
	ErrConflict = errors.New("conflict")
)

// ConflictError reports a uniqueness violation for a specific logical field.
// Field is a stable logical name: "email", "subject_id".
type ConflictError struct {
	Op    string
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrConflict)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err represents ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
