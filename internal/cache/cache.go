// Package cache memoizes computed availability per calendar date.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"booking-service/internal/clock"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 30
	DefaultEvictBatch = 10
)

// Entry is one cached slot list.
type Entry struct {
	Slots     []string  `json:"slots"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EntryStore is the key-value backend of the slots cache. ttl is a hint for
// backends with native expiry; expiry is always enforced by Slots itself.
type EntryStore interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	All(ctx context.Context) (map[string]Entry, error)
}

type Options struct {
	TTL        time.Duration
	MaxEntries int
	EvictBatch int
}

// Slots is the availability cache keyed by date string ("2025-10-15").
type Slots struct {
	store EntryStore
	clock clock.Clock
	opts  Options

	// mu serializes the check-size-then-insert sequence of Put.
	mu sync.Mutex
}

func NewSlots(store EntryStore, c clock.Clock, opts Options) *Slots {
	if c == nil {
		c = clock.System()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.EvictBatch <= 0 {
		opts.EvictBatch = DefaultEvictBatch
	}
	return &Slots{store: store, clock: c, opts: opts}
}

// Get returns the cached slots for date. An expired entry is evicted and
// reported as a miss.
func (s *Slots) Get(ctx context.Context, date string) ([]string, bool, error) {
	e, ok, err := s.store.Get(ctx, date)
	if err != nil || !ok {
		return nil, false, err
	}
	if !s.clock.Now().Before(e.ExpiresAt) {
		return nil, false, s.store.Delete(ctx, date)
	}
	return e.Slots, true, nil
}

// Put stores slots for date, replacing any previous entry. When a new key
// would push the cache past its bound, the entries closest to expiry are
// evicted first.
func (s *Slots) Put(ctx context.Context, date string, slots []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.All(ctx)
	if err != nil {
		return err
	}
	if _, exists := all[date]; !exists && len(all) >= s.opts.MaxEntries {
		if err := s.store.Delete(ctx, nearestExpiry(all, s.opts.EvictBatch)...); err != nil {
			return err
		}
	}

	if slots == nil {
		slots = []string{}
	}
	e := Entry{Slots: slots, ExpiresAt: s.clock.Now().Add(s.opts.TTL)}
	return s.store.Set(ctx, date, e, s.opts.TTL)
}

// Invalidate drops the entry for date.
func (s *Slots) Invalidate(ctx context.Context, date string) error {
	return s.store.Delete(ctx, date)
}

// Sweep removes every expired entry and reports how many were dropped.
func (s *Slots) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.All(ctx)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	var expired []string
	for k, e := range all {
		if !now.Before(e.ExpiresAt) {
			expired = append(expired, k)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}
	return len(expired), s.store.Delete(ctx, expired...)
}

func nearestExpiry(all map[string]Entry, n int) []string {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ei, ej := all[keys[i]].ExpiresAt, all[keys[j]].ExpiresAt
		if ei.Equal(ej) {
			return keys[i] < keys[j]
		}
		return ei.Before(ej)
	})
	if n > len(keys) {
		n = len(keys)
	}
	return keys[:n]
}
