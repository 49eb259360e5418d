package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

// audioFallbackEstimate is shown when no audio format reports a size.
const audioFallbackEstimate = "~5MB"

// VideoMetadata is the read-only result of a metadata-only extraction.
type VideoMetadata struct {
	Title         string
	Duration      int
	Uploader      string
	Thumbnail     string
	SizeEstimates map[config.Quality]string
}

type formatInfo struct {
	Height         int    `json:"height"`
	Filesize       int64  `json:"filesize"`
	FilesizeApprox int64  `json:"filesize_approx"`
	Acodec         string `json:"acodec"`
}

type rawInfo struct {
	Title     string       `json:"title"`
	Duration  float64      `json:"duration"`
	Uploader  string       `json:"uploader"`
	Thumbnail string       `json:"thumbnail"`
	Formats   []formatInfo `json:"formats"`
}

// Resolver fetches video metadata without downloading any media bytes.
type Resolver struct {
	tools util.Tools
}

func NewResolver(tools util.Tools) *Resolver {
	return &Resolver{tools: tools}
}

// Resolve returns metadata for url, or nil on any extraction failure.
// Callers treat nil as "ask the user to re-check the URL", never as a
// fatal error.
func (r *Resolver) Resolve(ctx context.Context, url string) *VideoMetadata {
	args := []string{"-J", "--no-playlist", "--no-warnings"}
	if util.DetectPlatform(url) == util.PlatformYouTube && !r.tools.FFmpeg {
		// Without a muxer only pre-merged formats are usable, and the
		// android client is the one that still lists them.
		args = append(args, "--extractor-args", "youtube:player_client=android")
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, ytdlpCommand, args...)
	out, err := cmd.Output()
	if err != nil {
		log.Printf("[Resolver] Extraction failed for %s: %s", url, extractYtdlpError(err))
		return nil
	}

	var raw rawInfo
	if err := json.Unmarshal(out, &raw); err != nil {
		log.Printf("[Resolver] Bad metadata JSON for %s: %v", url, err)
		return nil
	}

	title := raw.Title
	if title == "" {
		title = "Video"
	}

	return &VideoMetadata{
		Title:         title,
		Duration:      int(raw.Duration),
		Uploader:      raw.Uploader,
		Thumbnail:     raw.Thumbnail,
		SizeEstimates: bucketSizes(raw.Formats),
	}
}

// bucketSizes assigns each sized format to the nearest tier at or below
// its height and keeps the largest estimate per tier. Formats without a
// height are skipped for the video tiers; the audio estimate is the
// smallest audio-capable format.
func bucketSizes(formats []formatInfo) map[config.Quality]string {
	tierBytes := make(map[config.Quality]int64)
	var audioMin int64

	for _, f := range formats {
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}
		if size == 0 {
			continue
		}

		if f.Acodec != "" && f.Acodec != "none" {
			if audioMin == 0 || size < audioMin {
				audioMin = size
			}
		}

		tier, ok := tierForHeight(f.Height)
		if !ok {
			continue
		}
		if size > tierBytes[tier] {
			tierBytes[tier] = size
		}
	}

	estimates := make(map[config.Quality]string)
	for tier, bytes := range tierBytes {
		estimates[tier] = fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
	}
	if audioMin > 0 {
		estimates[config.QualityAudio] = fmt.Sprintf("%.1fMB", float64(audioMin)/(1024*1024))
	} else {
		estimates[config.QualityAudio] = audioFallbackEstimate
	}
	return estimates
}

// extractYtdlpError digs the ERROR line out of a failed command's
// captured stderr, falling back to the exec error itself.
func extractYtdlpError(err error) string {
	if exitErr, ok := err.(*exec.ExitError); ok {
		if m := ytdlpErrorRe.FindStringSubmatch(string(exitErr.Stderr)); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return err.Error()
}

func tierForHeight(height int) (config.Quality, bool) {
	switch {
	case height >= 1080:
		return config.QualityHD, true
	case height >= 720:
		return config.Quality720p, true
	case height >= 480:
		return config.Quality480p, true
	case height >= 360:
		return config.Quality360p, true
	default:
		return "", false
	}
}
