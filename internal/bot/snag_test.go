package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/services"
	"github.com/Fl3xxRichie/vidsnag/internal/store"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	kv := store.Open("not-a-redis-url") // falls back to memory
	if kv.Backend() != "memory" {
		t.Fatal("expected the in-memory backend")
	}
	return &Bot{deps: Deps{Prefs: store.NewPreferences(kv)}}
}

func TestFreshUserGetsNoStar(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	if q := b.storedQuality(ctx, "never-seen"); q != "" {
		t.Fatalf("storedQuality = %q, expected empty for a fresh user", q)
	}

	meta := &services.VideoMetadata{Title: "clip"}
	buttons := flattenButtons(qualityButtons(meta, "abc123", b.storedQuality(ctx, "never-seen")))
	for _, btn := range buttons {
		if strings.Contains(btn.Label, "⭐") {
			t.Errorf("fresh user sees starred button %q", btn.Label)
		}
	}
}

func TestStoredQualityAfterSelection(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	b.deps.Prefs.Set(ctx, "user-1", "quality", "480p")

	if q := b.storedQuality(ctx, "user-1"); q != config.Quality480p {
		t.Errorf("storedQuality = %q, expected 480p", q)
	}

	meta := &services.VideoMetadata{Title: "clip"}
	buttons := flattenButtons(qualityButtons(meta, "abc123", b.storedQuality(ctx, "user-1")))
	starred := 0
	for _, btn := range buttons {
		if strings.HasPrefix(btn.Label, "⭐") {
			starred++
			if !strings.Contains(btn.CustomID, "480p") {
				t.Errorf("star landed on %q, expected the stored tier", btn.CustomID)
			}
		}
	}
	if starred != 1 {
		t.Errorf("%d starred buttons, expected exactly 1", starred)
	}
}

func TestDefaultQualityFallback(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	if q := b.defaultQuality(ctx, "never-seen"); q != config.Quality720p {
		t.Errorf("defaultQuality = %q, expected the 720p fallback", q)
	}

	b.deps.Prefs.Set(ctx, "user-2", "quality", "audio")
	if q := b.defaultQuality(ctx, "user-2"); q != config.QualityAudio {
		t.Errorf("defaultQuality = %q, expected the stored tier", q)
	}
}
