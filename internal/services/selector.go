package services

import (
	"fmt"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

// FormatSelector returns the yt-dlp -f expression for one tier on one
// platform. YouTube splits audio and video into separate streams, so
// without ffmpeg to mux them the selector falls back to the legacy
// pre-merged format ids; every other supported platform serves
// single-file formats and gets a plain height-bounded chain.
func FormatSelector(platform util.Platform, tier config.Quality, ffmpeg bool) string {
	if tier == config.QualityAudio {
		return "bestaudio[ext=m4a]/bestaudio/best"
	}

	height, ok := config.TierHeight[tier]
	if !ok {
		height = 720
	}

	if platform == util.PlatformYouTube {
		if ffmpeg {
			return fmt.Sprintf(
				"bv[vcodec^=avc][height<=%d]+ba[acodec^=mp4a]/bv[height<=%d]+ba/b[height<=%d]/b",
				height, height, height)
		}
		return "22/18/b[ext=mp4]/b"
	}

	return fmt.Sprintf(
		"b[height<=%d][ext=mp4]/b[height<=%d]/b[ext=mp4]/b",
		height, height)
}
