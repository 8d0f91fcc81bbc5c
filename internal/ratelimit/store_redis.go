package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps windows in Redis so several instances share one count.
// Each key expires on its own after twice the window, which makes the
// limiter's sweep mostly a no-op.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: "booking:rate"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string { return s.prefix + ":" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (Window, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Window{}, false, nil
	}
	if err != nil {
		return Window{}, false, err
	}
	var w Window
	if err := json.Unmarshal(raw, &w); err != nil {
		return Window{}, false, err
	}
	return w, true, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, w Window, ttl time.Duration) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return s.rdb.Set(ctx, s.key(id), raw, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// All is only used for sweeping; Redis already expires stale windows, so
// it reports nothing rather than scanning the keyspace on every check.
func (s *RedisStore) All(context.Context) (map[string]Window, error) {
	return map[string]Window{}, nil
}
