package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setSecretEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GATEWARDEN_ACCESS_SECRET", strings.Repeat("a", 32))
	t.Setenv("GATEWARDEN_REFRESH_SECRET", strings.Repeat("r", 32))
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	setSecretEnv(t)
	t.Setenv("GATEWARDEN_TOKEN_ISSUER", "")
	t.Setenv("GATEWARDEN_ACCESS_TTL", "")
	t.Setenv("GATEWARDEN_REFRESH_TTL", "")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Issuer != "gatewarden" {
		t.Fatalf("issuer = %q", cfg.Issuer)
	}
	if cfg.AccessTokenTTL != 15*time.Minute || cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected TTLs: %v / %v", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	setSecretEnv(t)
	t.Setenv("GATEWARDEN_TOKEN_ISSUER", "custom")
	t.Setenv("GATEWARDEN_ACCESS_TTL", "5m")
	t.Setenv("GATEWARDEN_REFRESH_TTL", "48h")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Issuer != "custom" || cfg.AccessTokenTTL != 5*time.Minute || cfg.RefreshTokenTTL != 48*time.Hour {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigFromEnv_MissingSecrets(t *testing.T) {
	t.Setenv("GATEWARDEN_ACCESS_SECRET", "")
	t.Setenv("GATEWARDEN_REFRESH_SECRET", "")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

func TestLoadConfigFromEnv_ShortSecret(t *testing.T) {
	t.Setenv("GATEWARDEN_ACCESS_SECRET", "short")
	t.Setenv("GATEWARDEN_REFRESH_SECRET", strings.Repeat("r", 32))

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

func TestLoadConfigFromEnv_BadDuration(t *testing.T) {
	setSecretEnv(t)
	t.Setenv("GATEWARDEN_ACCESS_TTL", "not-a-duration")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}
