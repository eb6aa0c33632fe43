package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the identity envelope carried by access tokens and
// propagated to authenticated handlers.
type AccessClaims struct {
	jwt.RegisteredClaims

	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
}

// refreshClaims is the envelope carried by refresh tokens. Deliberately
// minimal: the admin ID only.
type refreshClaims struct {
	jwt.RegisteredClaims

	AdminID string `json:"admin_id"`
}

// TokenManager issues and verifies HS256-signed tokens. Access and refresh
// tokens use separate secrets.
type TokenManager struct {
	cfg Config
}

// NewTokenManager validates the config and returns a TokenManager.
func NewTokenManager(cfg Config) (*TokenManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TokenManager{cfg: cfg}, nil
}

// IssueAccess mints a short-lived access token embedding the admin ID and
// contact address.
func (m *TokenManager) IssueAccess(adminID, email string, now time.Time) (string, time.Time, error) {
	exp := now.Add(m.cfg.AccessTokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		AdminID: adminID,
		Email:   email,
	})

	signed, err := token.SignedString(m.cfg.AccessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueRefresh mints a long-lived refresh token embedding the admin ID only.
func (m *TokenManager) IssueRefresh(adminID string, now time.Time) (string, time.Time, error) {
	exp := now.Add(m.cfg.RefreshTokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		AdminID: adminID,
	})

	signed, err := token.SignedString(m.cfg.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyAccess verifies an access token's signature, issuer, and expiry.
func (m *TokenManager) VerifyAccess(tokenString string) (AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenString, claims, m.cfg.AccessSecret); err != nil {
		return AccessClaims{}, ErrForbidden
	}
	if claims.AdminID == "" {
		return AccessClaims{}, ErrForbidden
	}
	return *claims, nil
}

// VerifyRefresh verifies a refresh token's signature, issuer, and expiry,
// returning the embedded admin ID. Expiry lives in the token itself, so no
// store round-trip or background sweep is needed here.
func (m *TokenManager) VerifyRefresh(tokenString string) (string, error) {
	claims := &refreshClaims{}
	if err := m.parse(tokenString, claims, m.cfg.RefreshSecret); err != nil {
		return "", ErrForbidden
	}
	if claims.AdminID == "" {
		return "", ErrForbidden
	}
	return claims.AdminID, nil
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrForbidden
	}
	return nil
}
