package session

import "errors"

var (
	// ErrUnauthenticated is returned when no credential was supplied where
	// one is required (e.g. an empty refresh token). Clients may prompt for
	// re-login.
	ErrUnauthenticated = errors.New("no credential supplied")

	// ErrForbidden is returned when a credential was supplied but is not
	// valid or live: unknown refresh token, bad signature, or expiry.
	// The cause is deliberately not distinguished.
	ErrForbidden = errors.New("credential not valid")

	// ErrConfig is returned for invalid session configuration.
	ErrConfig = errors.New("invalid session config")
)
