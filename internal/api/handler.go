// Package api wires the HTTP surface: the auth endpoints, the public device
// verification endpoint, and the admin device-management endpoints.
//
// Status-code policy follows the error taxonomy: 400 for malformed input and
// uniqueness conflicts, 401 for missing credentials, 403 for credentials
// that are present but not valid or live, 429 for rate-limited sources, and
// 500 only for true server faults. Responses for authentication and
// ownership failures carry generic messages; detailed causes go to the log.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"gatewarden/internal/device"
	"gatewarden/internal/identity"
	"gatewarden/internal/session"
)

// SessionService is the slice of the session service the HTTP layer needs.
type SessionService interface {
	Register(ctx context.Context, assertion string) (identity.Admin, error)
	Login(ctx context.Context, assertion string) (session.TokenPair, error)
	Rotate(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyAccess(token string) (session.AccessClaims, error)
}

// DeviceService is the slice of the device gate the HTTP layer needs.
type DeviceService interface {
	Check(ctx context.Context, hash string) (device.CheckResult, error)
	Register(ctx context.Context, owner device.Owner, hash, userName, label string) (string, error)
	List(ctx context.Context, owner device.Owner) ([]device.Device, error)
	Revoke(ctx context.Context, owner device.Owner, deviceID string) error
}

// Handler wires HTTP endpoints to the session and device services.
type Handler struct {
	log      *slog.Logger
	cfg      Config
	sessions SessionService
	devices  DeviceService
	metrics  *Metrics

	loginLimiter  *KeyedLimiter
	verifyLimiter *KeyedLimiter
	manageLimiter *KeyedLimiter
	genLimiter    *KeyedLimiter
}

// NewHandler constructs the HTTP handler set.
func NewHandler(log *slog.Logger, cfg Config, sessions SessionService, devices DeviceService, metrics *Metrics) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		log:      log,
		cfg:      cfg,
		sessions: sessions,
		devices:  devices,
		metrics:  metrics,

		loginLimiter:  NewKeyedLimiter(cfg.LoginMax, cfg.LoginWindow),
		verifyLimiter: NewKeyedLimiter(cfg.VerifyMax, cfg.VerifyWindow),
		manageLimiter: NewKeyedLimiter(cfg.ManageMax, cfg.ManageWindow),
		genLimiter:    NewKeyedLimiter(cfg.GeneralMax, cfg.GeneralWindow),
	}
}

// Register wires all routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/auth/register", h.limited(h.loginLimiter, h.handleRegister))
	mux.HandleFunc("/api/auth/admin-login", h.limited(h.loginLimiter, h.handleLogin))
	mux.HandleFunc("/api/auth/refresh", h.limited(h.genLimiter, h.handleRefresh))
	mux.HandleFunc("/api/auth/logout", h.limited(h.genLimiter, h.handleLogout))

	mux.HandleFunc("/api/verify-device", h.limited(h.verifyLimiter, h.handleVerifyDevice))
	mux.HandleFunc("/api/devices", h.limited(h.manageLimiter, h.requireAdmin(h.handleDevices)))
	mux.HandleFunc("/api/devices/", h.limited(h.manageLimiter, h.requireAdmin(h.handleDeviceByID)))
}

// clientIP extracts the caller's address. Behind the configured proxy the
// forwarded headers are trusted; otherwise only the socket peer counts.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); net.ParseIP(ip) != nil {
			return ip
		}
		if raw := r.Header.Get("X-Forwarded-For"); raw != "" {
			for _, p := range strings.Split(raw, ",") {
				if ip := strings.TrimSpace(p); net.ParseIP(ip) != nil {
					return ip
				}
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
