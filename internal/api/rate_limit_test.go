package api

import (
	"testing"
	"time"
)

func TestKeyedLimiter_EnforcesBudgetPerKey(t *testing.T) {
	l := NewKeyedLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1", now) {
			t.Fatalf("request %d should be within budget", i+1)
		}
	}
	if l.Allow("10.0.0.1", now) {
		t.Fatal("fourth request should be rejected")
	}

	// Other keys have their own budget.
	if !l.Allow("10.0.0.2", now) {
		t.Fatal("different key should not share the budget")
	}
}

func TestKeyedLimiter_WindowSlides(t *testing.T) {
	l := NewKeyedLimiter(2, time.Minute)
	now := time.Now()

	if !l.Allow("k", now) || !l.Allow("k", now) {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("k", now.Add(30*time.Second)) {
		t.Fatal("third request inside the window should be rejected")
	}
	if !l.Allow("k", now.Add(61*time.Second)) {
		t.Fatal("request after the window drained should pass")
	}
}

func TestKeyedLimiter_SweepDropsDrainedKeys(t *testing.T) {
	l := NewKeyedLimiter(5, time.Minute)
	now := time.Now()

	l.Allow("stale", now)
	l.Allow("live", now.Add(50*time.Second))

	l.Sweep(now.Add(70 * time.Second))

	l.mu.Lock()
	_, stale := l.events["stale"]
	_, live := l.events["live"]
	l.mu.Unlock()

	if stale {
		t.Fatal("drained key should be pruned")
	}
	if !live {
		t.Fatal("key with live events should survive the sweep")
	}
}

func TestKeyedLimiter_DefensiveDefaults(t *testing.T) {
	l := NewKeyedLimiter(0, 0)
	if l.limit <= 0 || l.window <= 0 {
		t.Fatalf("expected fallback budget, got limit=%d window=%v", l.limit, l.window)
	}
}
