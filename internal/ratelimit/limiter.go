package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"booking-service/internal/clock"
)

const (
	DefaultMaxRequests = 5
	DefaultWindow      = time.Hour
)

// Window is the fixed-window counter of one client.
type Window struct {
	Count int       `json:"count"`
	Start time.Time `json:"start"`
}

// WindowStore holds windows by identifier. ttl is a hint for backends with
// native expiry.
type WindowStore interface {
	Get(ctx context.Context, id string) (Window, bool, error)
	Set(ctx context.Context, id string, w Window, ttl time.Duration) error
	Delete(ctx context.Context, ids ...string) error
	All(ctx context.Context) (map[string]Window, error)
}

type Result struct {
	Allowed   bool
	Remaining int
	// ResetIn is the time until the current window closes; set only when denied.
	ResetIn time.Duration
}

// ResetInSeconds rounds ResetIn up to whole seconds.
func (r Result) ResetInSeconds() int {
	return int(math.Ceil(r.ResetIn.Seconds()))
}

type Limiter struct {
	store WindowStore
	clock clock.Clock

	// mu makes sweep, read and mutation one step within this process.
	mu sync.Mutex
}

func NewLimiter(store WindowStore, c clock.Clock) *Limiter {
	if c == nil {
		c = clock.System()
	}
	return &Limiter{store: store, clock: c}
}

// Check counts one request for id against a fixed window of length window
// allowing maxRequests. Windows idle for more than twice the window are
// swept first.
func (l *Limiter) Check(ctx context.Context, id string, maxRequests int, window time.Duration) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if err := l.sweep(ctx, now, 2*window); err != nil {
		return Result{}, err
	}

	w, ok, err := l.store.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}

	if !ok || now.Sub(w.Start) > window {
		w = Window{Count: 1, Start: now}
		if err := l.store.Set(ctx, id, w, 2*window); err != nil {
			return Result{}, err
		}
		return Result{Allowed: true, Remaining: maxRequests - 1}, nil
	}

	if w.Count >= maxRequests {
		return Result{Allowed: false, Remaining: 0, ResetIn: w.Start.Add(window).Sub(now)}, nil
	}

	w.Count++
	if err := l.store.Set(ctx, id, w, 2*window-now.Sub(w.Start)); err != nil {
		return Result{}, err
	}
	return Result{Allowed: true, Remaining: maxRequests - w.Count}, nil
}

func (l *Limiter) sweep(ctx context.Context, now time.Time, maxAge time.Duration) error {
	all, err := l.store.All(ctx)
	if err != nil {
		return err
	}
	var stale []string
	for id, w := range all {
		if now.Sub(w.Start) > maxAge {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	return l.store.Delete(ctx, stale...)
}
