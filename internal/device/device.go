// Package device implements the whitelist gate: an unauthenticated
// allow/deny check keyed by device hash, plus admin-scoped management of
// registered devices.
package device

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrInvalidInput is returned for malformed or oversized fields,
	// checked before any store access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDeviceExists is returned when the device hash is already
	// whitelisted. The message stays generic; schema details are never
	// surfaced.
	ErrDeviceExists = errors.New("device already exists")
)

// Device mirrors a whitelisted_devices row. Rows are immutable: created by
// an admin, destroyed only by the owning admin.
type Device struct {
	ID           string
	Hash         string
	UserName     string
	Label        string
	OwnerAdminID string
	RegisteredBy string
	CreatedAt    time.Time
}

// CheckResult is the public answer of the gate. Allowed is always present;
// the remaining fields are populated only for whitelisted devices.
type CheckResult struct {
	Allowed  bool
	Provider string
	UserName string
	Label    string
}

// Store abstracts whitelist persistence.
type Store interface {
	// Insert adds a device row. A duplicate hash is ErrDeviceExists.
	Insert(ctx context.Context, d Device) error

	// FindByHash loads a device by exact hash, joined to the owning
	// admin's contact address. Returns ErrDeviceNotFound on miss.
	FindByHash(ctx context.Context, hash string) (Device, string, error)

	// ListByOwner returns the devices registered by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Device, error)

	// DeleteOwned removes the device only if both id and ownerID match.
	// A mismatch deletes nothing and is not an error.
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

// ErrDeviceNotFound is internal to the gate; the service converts a miss
// into an Allowed=false result, never an error.
var ErrDeviceNotFound = errors.New("device not found")

func newDevice(hash, userName, label string, owner Owner) Device {
	return Device{
		ID:           ulid.Make().String(),
		Hash:         hash,
		UserName:     userName,
		Label:        label,
		OwnerAdminID: owner.AdminID,
		RegisteredBy: owner.Email,
		CreatedAt:    time.Now().UTC(),
	}
}
