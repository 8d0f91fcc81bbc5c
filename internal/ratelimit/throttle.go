package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"booking-service/internal/clock"
)

// Throttle is a token bucket per key with idle-entry cleanup.
type Throttle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	clock   clock.Clock
}

type throttleEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ThrottleOption func(*Throttle)

func WithIdleTTL(d time.Duration) ThrottleOption {
	return func(t *Throttle) { t.idleTTL = d }
}

func WithThrottleClock(c clock.Clock) ThrottleOption {
	return func(t *Throttle) { t.clock = c }
}

// NewThrottle returns nil when rps is not positive, which disables throttling.
func NewThrottle(rps float64, burst int, opts ...ThrottleOption) *Throttle {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	t := &Throttle{
		entries: make(map[string]*throttleEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		clock:   clock.System(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Allow reports whether key may proceed now, and otherwise how long until
// a token is available.
func (t *Throttle) Allow(key string) (bool, time.Duration) {
	if t == nil {
		return true, 0
	}
	now := t.clock.Now()

	t.mu.Lock()
	ent, ok := t.entries[key]
	if !ok {
		ent = &throttleEntry{lim: rate.NewLimiter(t.rps, t.burst)}
		t.entries[key] = ent
	}
	ent.lastSeen = now
	t.mu.Unlock()

	r := ent.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Cleanup drops keys not seen within the idle TTL and reports how many.
func (t *Throttle) Cleanup() int {
	if t == nil {
		return 0
	}
	cutoff := t.clock.Now().Add(-t.idleTTL)

	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for k, ent := range t.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(t.entries, k)
			n++
		}
	}
	return n
}

func (t *Throttle) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
