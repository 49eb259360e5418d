package ratelimit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Fl3xxRichie/vidsnag/internal/store"
)

// window is the per-user rolling-hour accounting record. WindowStart is
// authoritative for reset decisions; the store TTL only cleans up
// abandoned windows.
type window struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// Limiter caps downloads per user per rolling hour, backed by the shared
// key-value store.
type Limiter struct {
	kv      store.KV
	ceiling int
	span    time.Duration

	now func() time.Time
}

func New(kv store.KV, ceiling int, span time.Duration) *Limiter {
	return &Limiter{kv: kv, ceiling: ceiling, span: span, now: time.Now}
}

func rateKey(userID string) string { return "ratelimit:" + userID }

func (l *Limiter) load(ctx context.Context, userID string) window {
	w := window{}
	raw, err := l.kv.Get(ctx, rateKey(userID))
	if err == nil {
		json.Unmarshal([]byte(raw), &w)
	}
	if w.WindowStart.IsZero() || l.now().Sub(w.WindowStart) > l.span {
		w = window{Count: 0, WindowStart: l.now()}
	}
	return w
}

// CheckAndReserve reports whether userID may start another download and,
// only on success, consumes a slot. A rejected check never mutates the
// window. Store write failures count as allowed so a degraded backend
// does not lock users out.
func (l *Limiter) CheckAndReserve(ctx context.Context, userID string) bool {
	w := l.load(ctx, userID)
	if w.Count >= l.ceiling {
		return false
	}

	w.Count++
	data, _ := json.Marshal(w)
	if err := l.kv.Set(ctx, rateKey(userID), string(data), l.span); err != nil {
		log.Printf("[RateLimit] Write failed for user %s: %v", userID, err)
	}
	return true
}

// Status returns the slots left in the current window without consuming one.
func (l *Limiter) Status(ctx context.Context, userID string) (remaining, ceiling int) {
	w := l.load(ctx, userID)
	remaining = l.ceiling - w.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, l.ceiling
}

// Ceiling is the configured per-hour maximum, quoted in user messages.
func (l *Limiter) Ceiling() int { return l.ceiling }
