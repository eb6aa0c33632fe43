package app

import (
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("TEST_ENV_STRING", "  value  ")
	if got := EnvString("TEST_ENV_STRING", "def"); got != "value" {
		t.Fatalf("got %q, want trimmed value", got)
	}
	if got := EnvString("TEST_ENV_STRING_UNSET", "def"); got != "def" {
		t.Fatalf("got %q, want default", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("TEST_ENV_BOOL", "true")
	if !EnvBool("TEST_ENV_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("TEST_ENV_BOOL", "nonsense")
	if !EnvBool("TEST_ENV_BOOL", true) {
		t.Fatal("unparseable value should fall back to default")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "42")
	if got := EnvInt("TEST_ENV_INT", 7); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	t.Setenv("TEST_ENV_INT", "-3")
	if got := EnvInt("TEST_ENV_INT", 7); got != 7 {
		t.Fatalf("non-positive value should fall back to default, got %d", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TEST_ENV_DUR", "90s")
	if got := EnvDuration("TEST_ENV_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("got %v, want 90s", got)
	}
	t.Setenv("TEST_ENV_DUR", "-5s")
	if got := EnvDuration("TEST_ENV_DUR", time.Minute); got != time.Minute {
		t.Fatalf("non-positive duration should fall back to default, got %v", got)
	}
}

func TestEnvStringSlice(t *testing.T) {
	t.Setenv("TEST_ENV_SLICE", "a, b ,,c")
	got := EnvStringSlice("TEST_ENV_SLICE", []string{"def"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	t.Setenv("TEST_ENV_SLICE", " , ,")
	if got := EnvStringSlice("TEST_ENV_SLICE", []string{"def"}); len(got) != 1 || got[0] != "def" {
		t.Fatalf("all-blank value should fall back to default, got %v", got)
	}
}
