package stats

import (
	"context"
	"math"
	"testing"

	"github.com/Fl3xxRichie/vidsnag/internal/store"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	kv := store.Open("unreachable")
	if kv.Backend() != "memory" {
		t.Fatalf("expected memory backend, got %s", kv.Backend())
	}
	return NewRecorder(kv)
}

func TestRecordAggregates(t *testing.T) {
	r := newRecorder(t)
	ctx := context.Background()

	r.Record(ctx, "1", DownloadRecord{Quality: "720p", Bytes: 10 * 1024 * 1024, Platform: "twitter", Success: true})
	r.Record(ctx, "1", DownloadRecord{Quality: "720p", Bytes: 5 * 1024 * 1024, Platform: "tiktok", Success: true})
	r.Record(ctx, "1", DownloadRecord{Quality: "audio", Bytes: 1024 * 1024, Platform: "twitter", Success: true})

	us := r.UserStats(ctx, "1")
	if us.TotalDownloads != 3 {
		t.Errorf("TotalDownloads = %d, expected 3", us.TotalDownloads)
	}
	if us.DownloadsByQuality["720p"] != 2 || us.DownloadsByQuality["audio"] != 1 {
		t.Errorf("quality breakdown = %v", us.DownloadsByQuality)
	}
	if math.Abs(us.TotalSizeMB-16) > 0.01 {
		t.Errorf("TotalSizeMB = %.2f, expected 16", us.TotalSizeMB)
	}
	if us.FirstUsed.IsZero() || us.LastUsed.IsZero() {
		t.Error("FirstUsed/LastUsed not set")
	}
	if len(us.History) != 3 {
		t.Errorf("history length = %d, expected 3", len(us.History))
	}
	if us.History[0].Quality != "audio" {
		t.Errorf("history[0].Quality = %s, expected most recent first", us.History[0].Quality)
	}
}

func TestFailedDownloadsNotRecorded(t *testing.T) {
	r := newRecorder(t)
	ctx := context.Background()

	r.Record(ctx, "2", DownloadRecord{Quality: "hd", Bytes: 123, Success: false})

	us := r.UserStats(ctx, "2")
	if us.TotalDownloads != 0 {
		t.Errorf("failed download was recorded: %+v", us)
	}

	gs := r.GlobalStats(ctx)
	if gs.TotalDownloads != 0 {
		t.Errorf("failed download reached global stats: %+v", gs)
	}
}

func TestHistoryCapped(t *testing.T) {
	r := newRecorder(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		r.Record(ctx, "3", DownloadRecord{Quality: "480p", Bytes: 1024, Platform: "instagram", Success: true})
	}

	us := r.UserStats(ctx, "3")
	if len(us.History) != historyLimit {
		t.Errorf("history length = %d, expected %d", len(us.History), historyLimit)
	}
	if us.TotalDownloads != 15 {
		t.Errorf("TotalDownloads = %d, expected 15", us.TotalDownloads)
	}
}

func TestGlobalStatsAcrossUsers(t *testing.T) {
	r := newRecorder(t)
	ctx := context.Background()

	r.Record(ctx, "a", DownloadRecord{Quality: "hd", Bytes: 1024 * 1024, Platform: "youtube", Success: true})
	r.Record(ctx, "b", DownloadRecord{Quality: "hd", Bytes: 1024 * 1024, Platform: "twitter", Success: true})
	r.Record(ctx, "b", DownloadRecord{Quality: "360p", Bytes: 1024 * 1024, Platform: "twitter", Success: true})

	gs := r.GlobalStats(ctx)
	if gs.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, expected 2", gs.TotalUsers)
	}
	if gs.TotalDownloads != 3 {
		t.Errorf("TotalDownloads = %d, expected 3", gs.TotalDownloads)
	}
	if gs.DownloadsByQuality["hd"] != 2 {
		t.Errorf("hd count = %d, expected 2", gs.DownloadsByQuality["hd"])
	}
}
