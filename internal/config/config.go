package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var Version = "dev"

// Quality is one of the discrete download profiles offered to users.
type Quality string

const (
	QualityHD    Quality = "hd"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
	QualityAudio Quality = "audio"
)

// Tiers lists the selectable qualities in presentation order.
var Tiers = []Quality{QualityHD, Quality720p, Quality480p, Quality360p, QualityAudio}

// TierHeight maps a video tier to its maximum pixel height.
// QualityAudio has no entry since it carries no video stream.
var TierHeight = map[Quality]int{
	QualityHD:   1080,
	Quality720p: 720,
	Quality480p: 480,
	Quality360p: 360,
}

var TierLabel = map[Quality]string{
	QualityHD:    "HD (1080p)",
	Quality720p:  "SD (720p)",
	Quality480p:  "SD (480p)",
	Quality360p:  "SD (360p)",
	QualityAudio: "Audio Only",
}

func ValidQuality(q string) bool {
	for _, t := range Tiers {
		if string(t) == q {
			return true
		}
	}
	return false
}

const (
	// Discord rejects bot uploads above this size.
	MaxDiscordFileSize = 25 * 1024 * 1024
	// Compression target stays just under the transport ceiling.
	CompressTargetMB = 24

	AttemptTimeout = 5 * time.Minute
	URLCacheTTL    = 300 * time.Second
	RateWindow     = 1 * time.Hour

	SweepInterval = 10 * time.Minute
	SweepMaxAge   = 15 * time.Minute

	MaxURLLength = 2048
	MaxBatchURLs = 10
)

type Config struct {
	Port          string
	DiscordToken  string
	DiscordAppID  string
	RedisURL      string
	DownloadDir   string
	MaxFileSizeMB int
	RatePerHour   int
	MaxRetries    int
}

func Load() *Config {
	return &Config{
		Port:          envOrDefault("PORT", "8000"),
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		DiscordAppID:  os.Getenv("DISCORD_APP_ID"),
		RedisURL:      envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		DownloadDir:   envOrDefault("DOWNLOAD_DIR", filepath.Join(os.TempDir(), "vidsnag")),
		MaxFileSizeMB: envIntOrDefault("MAX_FILE_SIZE_MB", 50),
		RatePerHour:   envIntOrDefault("RATE_LIMIT_PER_HOUR", 5),
		MaxRetries:    envIntOrDefault("MAX_RETRIES", 3),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
