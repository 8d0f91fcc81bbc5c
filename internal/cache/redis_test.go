package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Runs only when REDIS_ADDR points at a disposable Redis.
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	store := NewRedisStore(rdb, WithPrefix("test:slots:"+time.Now().Format("150405.000")))
	exp := time.Now().Add(time.Minute).Truncate(time.Second)

	if err := store.Set(ctx, "2025-10-15", Entry{Slots: []string{"09:00"}, ExpiresAt: exp}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	e, ok, err := store.Get(ctx, "2025-10-15")
	if err != nil || !ok {
		t.Fatalf("expected entry, ok=%v err=%v", ok, err)
	}
	if !e.ExpiresAt.Equal(exp) || len(e.Slots) != 1 {
		t.Fatalf("unexpected entry %+v", e)
	}

	all, err := store.All(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one entry from All, got %v err=%v", all, err)
	}
	if err := store.Delete(ctx, "2025-10-15"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "2025-10-15"); ok {
		t.Fatalf("expected entry to be deleted")
	}
}
