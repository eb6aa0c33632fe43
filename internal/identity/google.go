package identity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	// googleIssuer is the OIDC discovery endpoint for Google sign-in.
	googleIssuer = "https://accounts.google.com"

	// maxAssertionBytes bounds assertion size before any network or crypto
	// work. Google ID tokens are well under this.
	maxAssertionBytes = 4096
)

// GoogleVerifier verifies Google-issued ID tokens against a configured
// OAuth client ID (the expected audience).
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
	timeout  time.Duration
	log      *slog.Logger
}

// NewGoogleVerifier performs OIDC discovery for Google and returns a
// Verifier bound to the given client ID. Discovery fetches the provider's
// signing keys, so it needs outbound network access.
func NewGoogleVerifier(ctx context.Context, clientID string, timeout time.Duration, log *slog.Logger) (*GoogleVerifier, error) {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, err
	}

	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		timeout:  timeout,
		log:      log,
	}, nil
}

// Verify implements Verifier.
func (g *GoogleVerifier) Verify(ctx context.Context, assertion string) (Identity, error) {
	assertion = strings.TrimSpace(assertion)
	if assertion == "" || len(assertion) > maxAssertionBytes {
		return Identity{}, ErrAuthenticationFailed
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	token, err := g.verifier.Verify(ctx, assertion)
	if err != nil {
		g.log.Info("identity.verify.fail", "err", err)
		return Identity{}, ErrAuthenticationFailed
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil {
		g.log.Info("identity.verify.claims.fail", "err", err)
		return Identity{}, ErrAuthenticationFailed
	}

	subject := strings.TrimSpace(token.Subject)
	email := strings.TrimSpace(claims.Email)
	if subject == "" || email == "" {
		g.log.Info("identity.verify.fail", "err", "missing subject or email claim")
		return Identity{}, ErrAuthenticationFailed
	}

	return Identity{SubjectID: subject, Email: email}, nil
}
