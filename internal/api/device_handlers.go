package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gatewarden/internal/device"
	"gatewarden/internal/session"
)

type verifyDeviceRequest struct {
	DeviceHash string `json:"device_hash"`
}

// verifyDeviceResponse always carries the allowed flag; provider, user_name
// and label appear only for whitelisted devices.
type verifyDeviceResponse struct {
	Allowed  bool   `json:"allowed"`
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Label    string `json:"label,omitempty"`
}

type addDeviceRequest struct {
	DeviceHash string `json:"device_hash"`
	UserName   string `json:"user_name"`
	Label      string `json:"label"`
}

type addDeviceResponse struct {
	Message  string `json:"message"`
	DeviceID string `json:"deviceId"`
}

type deviceResponse struct {
	ID           string    `json:"id"`
	DeviceHash   string    `json:"device_hash"`
	UserName     string    `json:"user_name"`
	Label        string    `json:"label"`
	RegisteredBy string    `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type deviceListResponse struct {
	Devices []deviceResponse `json:"devices"`
}

func (h *Handler) handleVerifyDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req verifyDeviceRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		h.metrics.deviceCheck(resultInvalid)
		writeJSON(w, http.StatusBadRequest, verifyDeviceResponse{Allowed: false, Message: "Invalid request"})
		return
	}

	res, err := h.devices.Check(r.Context(), req.DeviceHash)
	switch {
	case errors.Is(err, device.ErrInvalidInput):
		// Malformed looks the same as absent to a scanning client.
		h.metrics.deviceCheck(resultInvalid)
		writeJSON(w, http.StatusBadRequest, verifyDeviceResponse{Allowed: false, Message: "Invalid request"})
	case err != nil:
		h.metrics.deviceCheck(resultError)
		h.log.Error("device.verify.fail", "err", err)
		writeJSON(w, http.StatusInternalServerError, verifyDeviceResponse{Allowed: false, Message: "Verification failed"})
	case !res.Allowed:
		h.metrics.deviceCheck(resultDenied)
		writeJSON(w, http.StatusOK, verifyDeviceResponse{Allowed: false, Message: "Access denied"})
	default:
		h.metrics.deviceCheck(resultAllowed)
		writeJSON(w, http.StatusOK, verifyDeviceResponse{
			Allowed:  true,
			Message:  "Device verified",
			Provider: res.Provider,
			UserName: res.UserName,
			Label:    res.Label,
		})
	}
}

func (h *Handler) handleDevices(w http.ResponseWriter, r *http.Request, claims session.AccessClaims) {
	switch r.Method {
	case http.MethodPost:
		h.addDevice(w, r, claims)
	case http.MethodGet:
		h.listDevices(w, r, claims)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) addDevice(w http.ResponseWriter, r *http.Request, claims session.AccessClaims) {
	var req addDeviceRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid device information")
		return
	}

	owner := device.Owner{AdminID: claims.AdminID, Email: claims.Email}
	id, err := h.devices.Register(r.Context(), owner, req.DeviceHash, req.UserName, req.Label)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, addDeviceResponse{Message: "Device added successfully", DeviceID: id})
	case errors.Is(err, device.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid device information")
	case errors.Is(err, device.ErrDeviceExists):
		writeError(w, http.StatusBadRequest, "Device already exists")
	default:
		h.log.Error("device.add.fail", "err", err, "admin_id", claims.AdminID)
		writeError(w, http.StatusInternalServerError, "Failed to add device")
	}
}

func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request, claims session.AccessClaims) {
	owner := device.Owner{AdminID: claims.AdminID, Email: claims.Email}
	devices, err := h.devices.List(r.Context(), owner)
	if err != nil {
		h.log.Error("device.list.fail", "err", err, "admin_id", claims.AdminID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve devices")
		return
	}

	out := make([]deviceResponse, 0, len(devices))
	for _, d := range devices {
		out = append(out, deviceResponse{
			ID:           d.ID,
			DeviceHash:   d.Hash,
			UserName:     d.UserName,
			Label:        d.Label,
			RegisteredBy: d.RegisteredBy,
			CreatedAt:    d.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, deviceListResponse{Devices: out})
}

func (h *Handler) handleDeviceByID(w http.ResponseWriter, r *http.Request, claims session.AccessClaims) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/devices/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "Invalid device ID")
		return
	}

	owner := device.Owner{AdminID: claims.AdminID, Email: claims.Email}
	if err := h.devices.Revoke(r.Context(), owner, id); err != nil {
		if errors.Is(err, device.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Invalid device ID")
			return
		}
		h.log.Error("device.delete.fail", "err", err, "admin_id", claims.AdminID)
		writeError(w, http.StatusInternalServerError, "Failed to remove device")
		return
	}

	// Ownership mismatches land here too: deleting nothing is still success.
	writeJSON(w, http.StatusOK, messageResponse{Message: "Device removed successfully"})
}
