// Package session implements the credential lifecycle for admins: issuing
// access/refresh token pairs from verified identity assertions, rotating
// access tokens, and revoking sessions on logout.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gatewarden/internal/identity"
)

// maxRefreshTokenBytes bounds refresh-token input before any store or
// crypto work.
const maxRefreshTokenBytes = 4096

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service implements the session operations: Register, Login, Rotate,
// Logout.
type Service struct {
	verifier identity.Verifier
	admins   identity.Store
	store    Store
	tokens   *TokenManager
	log      *slog.Logger
}

// NewService constructs a Service.
func NewService(verifier identity.Verifier, admins identity.Store, store Store, tokens *TokenManager, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		verifier: verifier,
		admins:   admins,
		store:    store,
		tokens:   tokens,
		log:      log,
	}
}

// Register verifies the assertion and creates the admin account. It issues
// no tokens; registration and login are separate operations. An existing
// admin with the same subject ID or email is a ConflictError.
func (s *Service) Register(ctx context.Context, assertion string) (identity.Admin, error) {
	ident, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return identity.Admin{}, err
	}

	admin, err := s.admins.Create(ctx, ident.Email, ident.SubjectID)
	if err != nil {
		return identity.Admin{}, err
	}

	s.log.Info("auth.register", "admin_id", admin.ID)
	return admin, nil
}

// Login verifies the assertion and returns a fresh access/refresh token
// pair, persisting the refresh token. Each login creates an independent
// session; concurrent sessions per admin are allowed.
//
// An unknown-but-verified subject is auto-provisioned as an admin. This is
// deliberate: the identity provider is the trust gate for admin signup, and
// restricting it to an allow-list is a product decision, not a lookup-miss
// side effect.
//
// Admin creation and refresh persistence are separate statements. A failure
// between them leaves a valid state: the admin exists with no session, and
// the caller simply retries login.
func (s *Service) Login(ctx context.Context, assertion string) (TokenPair, error) {
	ident, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return TokenPair{}, err
	}

	admin, err := s.admins.GetBySubjectID(ctx, ident.SubjectID)
	if identity.IsNotFound(err) {
		admin, err = s.admins.Create(ctx, ident.Email, ident.SubjectID)
		if identity.IsConflict(err) {
			// Lost a provisioning race with a concurrent login; the row
			// exists now.
			admin, err = s.admins.GetBySubjectID(ctx, ident.SubjectID)
		}
		if err == nil {
			s.log.Info("auth.login.provisioned", "admin_id", admin.ID)
		}
	}
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now().UTC()

	access, _, err := s.tokens.IssueAccess(admin.ID, admin.Email, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.tokens.IssueRefresh(admin.ID, now)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.store.Create(ctx, admin.ID, refresh, refreshExp); err != nil {
		return TokenPair{}, err
	}

	s.log.Info("auth.login", "admin_id", admin.ID)
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate exchanges a valid, stored refresh token for a fresh access token.
// The refresh token itself is not rotated or re-persisted: the same token
// can mint access tokens until its own expiry or an explicit logout.
//
// An empty or oversized input is ErrUnauthenticated (no usable credential);
// an unknown, forged, or expired token is ErrForbidden.
func (s *Service) Rotate(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" || len(refreshToken) > maxRefreshTokenBytes {
		return "", ErrUnauthenticated
	}

	if _, err := s.store.Find(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}

	adminID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", ErrForbidden
	}

	// Re-read the admin so rotated access tokens carry the same claims as
	// login-issued ones; handlers rely on the email claim.
	admin, err := s.admins.GetByID(ctx, adminID)
	if identity.IsNotFound(err) {
		return "", ErrForbidden
	}
	if err != nil {
		return "", err
	}

	access, _, err := s.tokens.IssueAccess(admin.ID, admin.Email, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return access, nil
}

// Logout deletes the stored refresh token by value. It always succeeds for
// unknown tokens so callers cannot probe which values exist; calling it
// twice is safe.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || len(refreshToken) > maxRefreshTokenBytes {
		return nil
	}
	return s.store.Delete(ctx, refreshToken)
}

// VerifyAccess validates a bearer access token for authenticated routes.
func (s *Service) VerifyAccess(token string) (AccessClaims, error) {
	return s.tokens.VerifyAccess(token)
}
