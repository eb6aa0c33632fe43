package api

import (
	"net/http"
	"strings"

	"gatewarden/internal/session"
)

// adminHandler is an endpoint that requires an authenticated admin.
type adminHandler func(w http.ResponseWriter, r *http.Request, claims session.AccessClaims)

// requireAdmin verifies the bearer access token before invoking next.
// A missing token is 401 (no credential supplied); a present but invalid or
// expired token is 403. The distinction lets clients decide between
// prompting for login and retrying after a refresh.
func (h *Handler) requireAdmin(next adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := h.sessions.VerifyAccess(token)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		next(w, r, claims)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", false
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
