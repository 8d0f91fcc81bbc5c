package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps windows in a process-local map.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Window, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	return w, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, w Window, _ time.Duration) error {
	s.mu.Lock()
	s.windows[id] = w
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ids ...string) error {
	s.mu.Lock()
	for _, id := range ids {
		delete(s.windows, id)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) All(context.Context) (map[string]Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Window, len(s.windows))
	for k, v := range s.windows {
		out[k] = v
	}
	return out, nil
}
