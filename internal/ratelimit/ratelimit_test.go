package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/Fl3xxRichie/vidsnag/internal/store"
)

func newTestLimiter(t *testing.T, ceiling int) (*Limiter, *time.Time) {
	t.Helper()
	kv := store.Open("not-a-redis-url") // falls back to memory
	if kv.Backend() != "memory" {
		t.Fatalf("expected memory backend, got %s", kv.Backend())
	}

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New(kv, ceiling, time.Hour)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestCheckAndReserveCeiling(t *testing.T) {
	l, _ := newTestLimiter(t, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !l.CheckAndReserve(ctx, "u1") {
			t.Fatalf("request %d rejected below ceiling", i+1)
		}
	}

	if l.CheckAndReserve(ctx, "u1") {
		t.Error("request above ceiling was allowed")
	}
}

func TestRejectedCheckDoesNotConsumeSlot(t *testing.T) {
	l, _ := newTestLimiter(t, 2)
	ctx := context.Background()

	l.CheckAndReserve(ctx, "u1")
	l.CheckAndReserve(ctx, "u1")

	// Several rejected attempts must leave the window untouched.
	for i := 0; i < 3; i++ {
		l.CheckAndReserve(ctx, "u1")
	}

	remaining, ceiling := l.Status(ctx, "u1")
	if remaining != 0 || ceiling != 2 {
		t.Errorf("Status = %d/%d, expected 0/2", remaining, ceiling)
	}
}

func TestWindowResetAfterExpiry(t *testing.T) {
	l, clock := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.CheckAndReserve(ctx, "u1")
	}
	if l.CheckAndReserve(ctx, "u1") {
		t.Fatal("expected rejection at ceiling")
	}

	*clock = clock.Add(61 * time.Minute)

	if !l.CheckAndReserve(ctx, "u1") {
		t.Fatal("request after window expiry was rejected")
	}

	remaining, _ := l.Status(ctx, "u1")
	if remaining != 2 {
		t.Errorf("remaining after reset = %d, expected 2 (counter restarted at 1)", remaining)
	}
}

func TestUsersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if !l.CheckAndReserve(ctx, "a") {
		t.Fatal("first request for user a rejected")
	}
	if !l.CheckAndReserve(ctx, "b") {
		t.Error("user b was affected by user a's window")
	}
}

func TestStatusBeforeFirstRequest(t *testing.T) {
	l, _ := newTestLimiter(t, 5)

	remaining, ceiling := l.Status(context.Background(), "fresh")
	if remaining != 5 || ceiling != 5 {
		t.Errorf("Status = %d/%d, expected 5/5", remaining, ceiling)
	}
}
