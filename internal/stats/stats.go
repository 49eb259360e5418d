package stats

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Fl3xxRichie/vidsnag/internal/store"
)

const historyLimit = 10

// DownloadRecord describes one completed download.
type DownloadRecord struct {
	Quality  string
	Bytes    int64
	URL      string
	Platform string
	Success  bool
}

// HistoryEntry is one line of a user's recent-download list.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Quality   string    `json:"quality"`
	SizeMB    float64   `json:"size_mb"`
	Platform  string    `json:"platform"`
}

// UserStats is the per-user aggregate kept under one store key.
type UserStats struct {
	TotalDownloads     int            `json:"total_downloads"`
	DownloadsByQuality map[string]int `json:"downloads_by_quality"`
	TotalSizeMB        float64        `json:"total_size_mb"`
	FirstUsed          time.Time      `json:"first_used"`
	LastUsed           time.Time      `json:"last_used"`
	History            []HistoryEntry `json:"history"`
}

// GlobalStats aggregates across all users.
type GlobalStats struct {
	TotalUsers         int            `json:"total_users"`
	TotalDownloads     int            `json:"total_downloads"`
	TotalSizeMB        float64        `json:"total_size_mb"`
	DownloadsByQuality map[string]int `json:"downloads_by_quality"`
}

// Recorder persists download statistics in the key-value store. Failed
// downloads are never recorded; a store failure is logged and swallowed
// so statistics can never fail a request.
type Recorder struct {
	kv store.KV
}

func NewRecorder(kv store.KV) *Recorder {
	return &Recorder{kv: kv}
}

func userKey(userID string) string { return "stats:user:" + userID }

const globalKey = "stats:global"

func (r *Recorder) Record(ctx context.Context, userID string, rec DownloadRecord) {
	if !rec.Success {
		return
	}

	sizeMB := float64(rec.Bytes) / (1024 * 1024)
	now := time.Now()

	us := r.loadUser(ctx, userID)
	if us.FirstUsed.IsZero() {
		us.FirstUsed = now
	}
	us.TotalDownloads++
	us.DownloadsByQuality[rec.Quality]++
	us.TotalSizeMB += sizeMB
	us.LastUsed = now
	us.History = append([]HistoryEntry{{
		Timestamp: now,
		Quality:   rec.Quality,
		SizeMB:    sizeMB,
		Platform:  rec.Platform,
	}}, us.History...)
	if len(us.History) > historyLimit {
		us.History = us.History[:historyLimit]
	}
	r.save(ctx, userKey(userID), us)

	gs := r.loadGlobal(ctx)
	if us.TotalDownloads == 1 {
		gs.TotalUsers++
	}
	gs.TotalDownloads++
	gs.TotalSizeMB += sizeMB
	gs.DownloadsByQuality[rec.Quality]++
	r.save(ctx, globalKey, gs)
}

func (r *Recorder) UserStats(ctx context.Context, userID string) UserStats {
	return r.loadUser(ctx, userID)
}

func (r *Recorder) GlobalStats(ctx context.Context) GlobalStats {
	return r.loadGlobal(ctx)
}

func (r *Recorder) loadUser(ctx context.Context, userID string) UserStats {
	us := UserStats{DownloadsByQuality: make(map[string]int)}
	if raw, err := r.kv.Get(ctx, userKey(userID)); err == nil {
		json.Unmarshal([]byte(raw), &us)
	}
	if us.DownloadsByQuality == nil {
		us.DownloadsByQuality = make(map[string]int)
	}
	return us
}

func (r *Recorder) loadGlobal(ctx context.Context) GlobalStats {
	gs := GlobalStats{DownloadsByQuality: make(map[string]int)}
	if raw, err := r.kv.Get(ctx, globalKey); err == nil {
		json.Unmarshal([]byte(raw), &gs)
	}
	if gs.DownloadsByQuality == nil {
		gs.DownloadsByQuality = make(map[string]int)
	}
	return gs
}

func (r *Recorder) save(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.kv.Set(ctx, key, string(data), 0); err != nil {
		log.Printf("[Stats] Write failed for %s: %v", key, err)
	}
}
