package app

import (
	"errors"
	"time"
)

// Config contains process-level runtime configuration loaded from
// environment variables. Session and API settings load separately in their
// own packages.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// GoogleClientID is the expected audience of admin identity
	// assertions. Required; there is no usable default.
	GoogleClientID string

	// VerifierTimeout bounds the identity-provider network round-trip.
	VerifierTimeout time.Duration

	// AllowedOrigins lists origins permitted by the CORS layer.
	AllowedOrigins []string

	// TrustProxy enables client-IP extraction from proxy headers; set it
	// only when the service sits behind a proxy that owns those headers.
	TrustProxy bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("GATEWARDEN_HTTP_ADDR", "0.0.0.0:3000"),
		LogLevel: EnvString("GATEWARDEN_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("GATEWARDEN_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("GATEWARDEN_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("GATEWARDEN_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("GATEWARDEN_HTTP_IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    EnvInt("GATEWARDEN_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("GATEWARDEN_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("GATEWARDEN_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("GATEWARDEN_DB_MIN_CONNS", 0),

		GoogleClientID:  EnvString("GATEWARDEN_GOOGLE_CLIENT_ID", ""),
		VerifierTimeout: EnvDuration("GATEWARDEN_VERIFIER_TIMEOUT", 10*time.Second),

		AllowedOrigins: EnvStringSlice("GATEWARDEN_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		TrustProxy:     EnvBool("GATEWARDEN_TRUST_PROXY", false),
	}
}

// Validate reports missing required settings. The process refuses to start
// without a database or a configured assertion audience.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: GATEWARDEN_DATABASE_URL is required")
	}
	if c.GoogleClientID == "" {
		return errors.New("config: GATEWARDEN_GOOGLE_CLIENT_ID is required")
	}
	return nil
}
