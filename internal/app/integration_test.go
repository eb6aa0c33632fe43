package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"gatewarden/internal/device"
	"gatewarden/internal/identity"
	"gatewarden/internal/session"
)

// testPool migrates the database named by GATEWARDEN_TEST_DATABASE_URL and
// returns a pool against it. Tests that need a live database are skipped
// when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := EnvString("GATEWARDEN_TEST_DATABASE_URL", "")
	if url == "" {
		t.Skip("GATEWARDEN_TEST_DATABASE_URL not set; skipping database integration test")
	}

	ctx := context.Background()
	if err := RunMigrations(ctx, url); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// uniqueSuffix keeps rows from different test runs apart; the test database
// is shared and not wiped between runs.
func uniqueSuffix() string { return ulid.Make().String() }

func TestIntegration_AdminStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	store, err := identity.NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	suffix := uniqueSuffix()
	email := fmt.Sprintf("it-%s@example.com", suffix)
	subject := "subject-" + suffix

	created, err := store.Create(ctx, email, subject)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetBySubjectID(ctx, subject)
	if err != nil {
		t.Fatalf("get by subject: %v", err)
	}
	if got.ID != created.ID || got.Email != email {
		t.Fatalf("got %+v, want %+v", got, created)
	}

	if _, err := store.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("get by id: %v", err)
	}

	// Same subject again must be a conflict, not a second row.
	_, err = store.Create(ctx, "other-"+email, subject)
	if !identity.IsConflict(err) {
		t.Fatalf("want conflict on duplicate subject, got %v", err)
	}

	if _, err := store.GetBySubjectID(ctx, "missing-"+suffix); !identity.IsNotFound(err) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestIntegration_RefreshTokenStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	admins, err := identity.NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("new admin store: %v", err)
	}
	suffix := uniqueSuffix()
	admin, err := admins.Create(ctx, fmt.Sprintf("it-%s@example.com", suffix), "subject-"+suffix)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	store := session.NewPostgresStore(pool)
	token := "refresh-" + suffix
	expires := time.Now().UTC().Add(24 * time.Hour)

	if err := store.Create(ctx, admin.ID, token, expires); err != nil {
		t.Fatalf("create token: %v", err)
	}

	row, err := store.Find(ctx, token)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if row.AdminID != admin.ID || row.Token != token {
		t.Fatalf("unexpected row: %+v", row)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Find(ctx, token); !errors.Is(err, session.ErrTokenNotFound) {
		t.Fatalf("want ErrTokenNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestIntegration_DeviceStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	admins, err := identity.NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("new admin store: %v", err)
	}
	suffix := uniqueSuffix()
	owner, err := admins.Create(ctx, fmt.Sprintf("it-%s@example.com", suffix), "subject-"+suffix)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	other, err := admins.Create(ctx, fmt.Sprintf("it2-%s@example.com", suffix), "subject2-"+suffix)
	if err != nil {
		t.Fatalf("create second admin: %v", err)
	}

	store := device.NewPostgresStore(pool)
	d := device.Device{
		ID:           ulid.Make().String(),
		Hash:         "hash-" + suffix,
		UserName:     "Front Door",
		Label:        "lobby",
		OwnerAdminID: owner.ID,
		RegisteredBy: owner.Email,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.Insert(ctx, d); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Duplicate hash under any owner is rejected.
	dup := d
	dup.ID = ulid.Make().String()
	dup.OwnerAdminID = other.ID
	if err := store.Insert(ctx, dup); !errors.Is(err, device.ErrDeviceExists) {
		t.Fatalf("want ErrDeviceExists, got %v", err)
	}

	got, provider, err := store.FindByHash(ctx, d.Hash)
	if err != nil {
		t.Fatalf("find by hash: %v", err)
	}
	if got.ID != d.ID || provider != owner.Email {
		t.Fatalf("got id=%q provider=%q, want id=%q provider=%q", got.ID, provider, d.ID, owner.Email)
	}

	list, err := store.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != d.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	// A non-owner delete leaves the row in place.
	if err := store.DeleteOwned(ctx, d.ID, other.ID); err != nil {
		t.Fatalf("non-owner delete: %v", err)
	}
	if _, _, err := store.FindByHash(ctx, d.Hash); err != nil {
		t.Fatalf("row should survive non-owner delete: %v", err)
	}

	if err := store.DeleteOwned(ctx, d.ID, owner.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, _, err := store.FindByHash(ctx, d.Hash); !errors.Is(err, device.ErrDeviceNotFound) {
		t.Fatalf("want ErrDeviceNotFound after delete, got %v", err)
	}
}
