package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// KeyedLimiter is a per-key sliding-window limiter. Keys are client IPs;
// entries whose windows have fully drained are pruned on the way through so
// the map cannot grow without bound under scanning traffic.
type KeyedLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	events map[string][]time.Time
}

// NewKeyedLimiter constructs a KeyedLimiter. Non-positive inputs fall back
// to a conservative budget.
func NewKeyedLimiter(limit int, window time.Duration) *KeyedLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &KeyedLimiter{
		limit:  limit,
		window: window,
		events: make(map[string][]time.Time),
	}
}

// Allow reports whether an event for key at time now is within budget.
func (l *KeyedLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cut := now.Add(-l.window)
	kept := l.events[key][:0]
	for _, t := range l.events[key] {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.events[key] = kept
		return false
	}
	l.events[key] = append(kept, now)
	return true
}

// Sweep drops keys with no live events. Called opportunistically by the
// middleware; cheap enough to run inline.
func (l *KeyedLimiter) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cut := now.Add(-l.window)
	for key, events := range l.events {
		live := false
		for _, t := range events {
			if t.After(cut) {
				live = true
				break
			}
		}
		if !live {
			delete(l.events, key)
		}
	}
}

// sweepEvery bounds how often the inline sweep runs.
const sweepEvery = 5 * time.Minute

// limited wraps next with the given per-IP limiter.
func (h *Handler) limited(l *KeyedLimiter, next http.HandlerFunc) http.HandlerFunc {
	var lastSweep time.Time
	var sweepMu sync.Mutex

	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		key := clientIP(r, h.cfg.TrustProxy)

		if !l.Allow(key, now) {
			w.Header().Set("Retry-After", strconv.FormatInt(int64(l.window.Seconds()), 10))
			writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
			return
		}

		sweepMu.Lock()
		if now.Sub(lastSweep) > sweepEvery {
			lastSweep = now
			sweepMu.Unlock()
			l.Sweep(now)
		} else {
			sweepMu.Unlock()
		}

		next(w, r)
	}
}
