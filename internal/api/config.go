package api

import "time"

// Config holds HTTP-layer settings: body limits, proxy trust, and the
// per-route rate budgets.
type Config struct {
	// MaxBodyBytes caps request body size before JSON decoding.
	MaxBodyBytes int64

	// TrustProxy enables reading the client IP from CF-Connecting-IP /
	// X-Forwarded-For. Only set this behind a proxy that strips inbound
	// copies of those headers.
	TrustProxy bool

	// Rate budgets, keyed by client IP.
	LoginMax      int
	LoginWindow   time.Duration
	VerifyMax     int
	VerifyWindow  time.Duration
	ManageMax     int
	ManageWindow  time.Duration
	GeneralMax    int
	GeneralWindow time.Duration
}

// DefaultConfig mirrors the production budgets: logins are scarce, device
// verification is chatty, management sits in between.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes: 1 << 20,

		LoginMax:      5,
		LoginWindow:   15 * time.Minute,
		VerifyMax:     30,
		VerifyWindow:  time.Minute,
		ManageMax:     10,
		ManageWindow:  time.Minute,
		GeneralMax:    100,
		GeneralWindow: time.Minute,
	}
}
