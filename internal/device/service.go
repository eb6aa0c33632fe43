package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Field limits, checked before any trust decision or store access.
const (
	maxHashLen     = 500
	maxUserNameLen = 100
	maxLabelLen    = 200
)

// Owner identifies the admin performing a management operation.
type Owner struct {
	AdminID string
	Email   string
}

// Service implements the device gate.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService constructs a Service.
func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

func validHash(hash string) bool {
	return hash != "" && len(hash) < maxHashLen
}

// Check answers the public allow/deny question for a device hash.
// Malformed input is ErrInvalidInput; a miss is Allowed=false with a nil
// error, so the transport never signals "not found" via status code.
func (s *Service) Check(ctx context.Context, hash string) (CheckResult, error) {
	if !validHash(hash) {
		return CheckResult{}, ErrInvalidInput
	}

	d, provider, err := s.store.FindByHash(ctx, hash)
	if errors.Is(err, ErrDeviceNotFound) {
		return CheckResult{}, nil
	}
	if err != nil {
		return CheckResult{}, err
	}

	return CheckResult{
		Allowed:  true,
		Provider: provider,
		UserName: d.UserName,
		Label:    d.Label,
	}, nil
}

// Register whitelists a device for the calling admin. The owner's contact
// address is denormalized into the row so the gate can report the provider
// without an extra lookup at verification time.
func (s *Service) Register(ctx context.Context, owner Owner, hash, userName, label string) (string, error) {
	hash = strings.TrimSpace(hash)
	if !validHash(hash) {
		return "", fmt.Errorf("%w: device hash", ErrInvalidInput)
	}
	if len(userName) > maxUserNameLen {
		return "", fmt.Errorf("%w: user name", ErrInvalidInput)
	}
	if len(label) > maxLabelLen {
		return "", fmt.Errorf("%w: label", ErrInvalidInput)
	}
	if userName == "" {
		userName = "Unknown"
	}

	d := newDevice(hash, userName, label, owner)
	if err := s.store.Insert(ctx, d); err != nil {
		return "", err
	}

	s.log.Info("device.registered", "device_id", d.ID, "admin_id", owner.AdminID)
	return d.ID, nil
}

// List returns the calling admin's devices, newest first.
func (s *Service) List(ctx context.Context, owner Owner) ([]Device, error) {
	return s.store.ListByOwner(ctx, owner.AdminID)
}

// Revoke removes a device only when the caller owns it. Revoking someone
// else's device, or an unknown ID, succeeds silently with no row affected:
// the response never reveals whether the ID exists under another owner.
func (s *Service) Revoke(ctx context.Context, owner Owner, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || len(deviceID) > maxHashLen {
		return fmt.Errorf("%w: device id", ErrInvalidInput)
	}
	if err := s.store.DeleteOwned(ctx, deviceID, owner.AdminID); err != nil {
		return err
	}
	s.log.Info("device.revoked", "device_id", deviceID, "admin_id", owner.AdminID)
	return nil
}
