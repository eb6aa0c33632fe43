package session

import (
	"os"
	"strings"
	"time"
)

// Config defines runtime configuration for the session subsystem:
// token lifetimes, the token issuer, and the HMAC signing secrets.
//
// There are no default secrets. A deployment that does not set them is
// refused at startup; silently falling back to a placeholder key would turn
// a config mistake into a forgeable-token incident.
type Config struct {
	// Issuer is the value set in the "iss" claim of issued tokens.
	Issuer string

	// AccessTokenTTL is the lifetime of access tokens.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is the lifetime of refresh tokens.
	RefreshTokenTTL time.Duration

	// AccessSecret signs access tokens (HMAC-SHA256). Min 32 bytes.
	AccessSecret []byte

	// RefreshSecret signs refresh tokens (HMAC-SHA256). Min 32 bytes.
	// Kept separate from AccessSecret so one compromised key cannot forge
	// the other token class.
	RefreshSecret []byte
}

// minSecretBytes is the minimum HMAC-SHA256 key length accepted.
const minSecretBytes = 32

// DefaultConfig returns the non-secret defaults; secrets must come from the
// environment.
func DefaultConfig() Config {
	return Config{
		Issuer:          "gatewarden",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - GATEWARDEN_ACCESS_SECRET
//   - GATEWARDEN_REFRESH_SECRET
//
// Optional:
//   - GATEWARDEN_TOKEN_ISSUER
//   - GATEWARDEN_ACCESS_TTL, GATEWARDEN_REFRESH_TTL (Go duration strings)
//
// Returns ErrConfig when a secret is missing or too short, or a duration is
// invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("GATEWARDEN_TOKEN_ISSUER")); v != "" {
		cfg.Issuer = v
	}

	if v := strings.TrimSpace(os.Getenv("GATEWARDEN_ACCESS_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTokenTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("GATEWARDEN_REFRESH_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTokenTTL = d
	}

	cfg.AccessSecret = []byte(os.Getenv("GATEWARDEN_ACCESS_SECRET"))
	cfg.RefreshSecret = []byte(os.Getenv("GATEWARDEN_REFRESH_SECRET"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the key-length policy. Byte length is measured, not
// runes: the key is used as raw HMAC key material.
func (c Config) Validate() error {
	if len(c.AccessSecret) < minSecretBytes || len(c.RefreshSecret) < minSecretBytes {
		return ErrConfig
	}
	if c.Issuer == "" || c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return ErrConfig
	}
	return nil
}
