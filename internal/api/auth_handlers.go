package api

import (
	"errors"
	"net/http"
	"strings"

	"gatewarden/internal/identity"
	"gatewarden/internal/session"
)

type assertionRequest struct {
	GoogleToken string `json:"google_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req assertionRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Google token is required")
		return
	}
	if strings.TrimSpace(req.GoogleToken) == "" {
		writeError(w, http.StatusBadRequest, "Google token is required")
		return
	}

	_, err := h.sessions.Register(r.Context(), req.GoogleToken)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, messageResponse{Message: "Admin registered"})
	case errors.Is(err, identity.ErrAuthenticationFailed):
		writeError(w, http.StatusUnauthorized, "Authentication failed")
	case identity.IsConflict(err):
		// Generic on purpose: does not say which field collided.
		writeError(w, http.StatusBadRequest, "Account already exists")
	default:
		h.log.Error("auth.register.fail", "err", err, "ip", clientIP(r, h.cfg.TrustProxy))
		writeError(w, http.StatusInternalServerError, "Registration failed")
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req assertionRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Google token is required")
		return
	}
	if strings.TrimSpace(req.GoogleToken) == "" {
		writeError(w, http.StatusBadRequest, "Google token is required")
		return
	}

	pair, err := h.sessions.Login(r.Context(), req.GoogleToken)
	switch {
	case err == nil:
		h.metrics.login(resultOK)
		writeJSON(w, http.StatusOK, tokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	case errors.Is(err, identity.ErrAuthenticationFailed):
		h.metrics.login(resultRejected)
		h.log.Info("auth.login.rejected", "ip", clientIP(r, h.cfg.TrustProxy))
		writeError(w, http.StatusUnauthorized, "Authentication failed")
	default:
		h.metrics.login(resultError)
		h.log.Error("auth.login.fail", "err", err, "ip", clientIP(r, h.cfg.TrustProxy))
		writeError(w, http.StatusInternalServerError, "Login failed")
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req refreshRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	access, err := h.sessions.Rotate(r.Context(), strings.TrimSpace(req.RefreshToken))
	switch {
	case err == nil:
		h.metrics.rotation(resultOK)
		writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: access})
	case errors.Is(err, session.ErrUnauthenticated):
		h.metrics.rotation(resultInvalid)
		writeError(w, http.StatusUnauthorized, "Refresh token required")
	case errors.Is(err, session.ErrForbidden):
		h.metrics.rotation(resultRejected)
		h.log.Info("auth.refresh.rejected", "ip", clientIP(r, h.cfg.TrustProxy))
		writeError(w, http.StatusForbidden, "Invalid or expired token")
	default:
		h.metrics.rotation(resultError)
		h.log.Error("auth.refresh.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Token refresh failed")
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req refreshRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	// Unknown tokens report success too; logout must not act as an
	// existence oracle.
	if err := h.sessions.Logout(r.Context(), strings.TrimSpace(req.RefreshToken)); err != nil {
		h.log.Error("auth.logout.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}
