package ratelimit

import (
	"testing"
	"time"

	"booking-service/internal/clock"
)

func TestThrottle_BurstThenWait(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC))
	th := NewThrottle(1, 2, WithThrottleClock(clk))

	for i := 0; i < 2; i++ {
		if ok, _ := th.Allow("k"); !ok {
			t.Fatalf("expected burst request %d to pass", i+1)
		}
	}
	ok, wait := th.Allow("k")
	if ok || wait <= 0 {
		t.Fatalf("expected third request to wait, ok=%v wait=%s", ok, wait)
	}

	clk.Advance(time.Second)
	if ok, _ := th.Allow("k"); !ok {
		t.Fatalf("expected token after one second")
	}
}

func TestThrottle_NilIsDisabled(t *testing.T) {
	th := NewThrottle(0, 10)
	if th != nil {
		t.Fatalf("expected nil throttle for rps=0")
	}
	if ok, _ := th.Allow("k"); !ok {
		t.Fatalf("nil throttle must allow")
	}
	if th.Cleanup() != 0 || th.Len() != 0 {
		t.Fatalf("nil throttle must be empty")
	}
}

func TestThrottle_CleanupRemovesIdle(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC))
	th := NewThrottle(1, 1, WithThrottleClock(clk), WithIdleTTL(time.Minute))

	th.Allow("idle")
	clk.Advance(2 * time.Minute)
	th.Allow("fresh")

	if n := th.Cleanup(); n != 1 {
		t.Fatalf("expected one idle entry removed, got %d", n)
	}
	if th.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", th.Len())
	}
}
