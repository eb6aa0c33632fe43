package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// Input bounds are checked before any network or key lookup, so a
// zero-value verifier is enough to exercise them.
func TestGoogleVerifier_RejectsUnusableInputBeforeNetwork(t *testing.T) {
	g := &GoogleVerifier{}

	for _, assertion := range []string{"", "   ", strings.Repeat("a", 4097)} {
		_, err := g.Verify(context.Background(), assertion)
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("assertion len %d: want ErrAuthenticationFailed, got %v", len(assertion), err)
		}
	}
}

func TestConflictError(t *testing.T) {
	err := ConflictError{Op: "store.Create", Field: "email"}

	if !IsConflict(err) {
		t.Fatal("IsConflict should match ConflictError")
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatal("ConflictError should unwrap to ErrConflict")
	}
	if got := err.Error(); !strings.Contains(got, "store.Create") || !strings.Contains(got, "email") {
		t.Fatalf("message should carry op and field: %q", got)
	}

	if IsConflict(ErrNotFound) {
		t.Fatal("IsConflict must not match unrelated errors")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrNotFound) {
		t.Fatal("IsNotFound should match the sentinel")
	}
	if IsNotFound(ErrAuthenticationFailed) {
		t.Fatal("IsNotFound must not match unrelated errors")
	}
}
