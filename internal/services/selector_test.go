package services

import (
	"strings"
	"testing"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

func TestFormatSelectorAudio(t *testing.T) {
	// Audio selection ignores platform and tool availability.
	for _, platform := range []util.Platform{util.PlatformTwitter, util.PlatformYouTube} {
		for _, ffmpeg := range []bool{true, false} {
			got := FormatSelector(platform, config.QualityAudio, ffmpeg)
			if got != "bestaudio[ext=m4a]/bestaudio/best" {
				t.Errorf("FormatSelector(%s, audio, %v) = %q", platform, ffmpeg, got)
			}
		}
	}
}

func TestFormatSelectorNonYouTube(t *testing.T) {
	tests := []struct {
		tier   config.Quality
		height string
	}{
		{config.QualityHD, "1080"},
		{config.Quality720p, "720"},
		{config.Quality480p, "480"},
		{config.Quality360p, "360"},
	}

	for _, test := range tests {
		got := FormatSelector(util.PlatformTwitter, test.tier, true)
		want := "b[height<=" + test.height + "][ext=mp4]/b[height<=" + test.height + "]/b[ext=mp4]/b"
		if got != want {
			t.Errorf("FormatSelector(twitter, %s) = %q, expected %q", test.tier, got, want)
		}
	}
}

func TestFormatSelectorYouTubeWithMuxer(t *testing.T) {
	got := FormatSelector(util.PlatformYouTube, config.Quality720p, true)
	if !strings.Contains(got, "bv[vcodec^=avc][height<=720]+ba") {
		t.Errorf("YouTube selector with ffmpeg should combine streams, got %q", got)
	}
}

func TestFormatSelectorYouTubeWithoutMuxer(t *testing.T) {
	got := FormatSelector(util.PlatformYouTube, config.QualityHD, false)
	if got != "22/18/b[ext=mp4]/b" {
		t.Errorf("YouTube selector without ffmpeg = %q, expected pre-merged ids", got)
	}
	if strings.Contains(got, "+") {
		t.Error("selector without ffmpeg must never request split streams")
	}
}
