package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
)

const mb = 1024 * 1024

func TestBucketSizesByHeight(t *testing.T) {
	formats := []formatInfo{
		{Height: 1080, Filesize: 40 * mb, Acodec: "mp4a"},
		{Height: 720, Filesize: 20 * mb, Acodec: "mp4a"},
		{Height: 480, Filesize: 10 * mb, Acodec: "mp4a"},
		{Height: 360, Filesize: 5 * mb, Acodec: "mp4a"},
	}

	got := bucketSizes(formats)

	tests := []struct {
		tier     config.Quality
		expected string
	}{
		{config.QualityHD, "40.0MB"},
		{config.Quality720p, "20.0MB"},
		{config.Quality480p, "10.0MB"},
		{config.Quality360p, "5.0MB"},
		{config.QualityAudio, "5.0MB"},
	}
	for _, test := range tests {
		if got[test.tier] != test.expected {
			t.Errorf("estimate[%s] = %q, expected %q", test.tier, got[test.tier], test.expected)
		}
	}
}

func TestBucketSizesHeightThresholds(t *testing.T) {
	// 1440p lands in hd, 900p in 720p, 200p is below every bucket.
	formats := []formatInfo{
		{Height: 1440, Filesize: 80 * mb},
		{Height: 900, Filesize: 30 * mb},
		{Height: 200, Filesize: 1 * mb},
	}

	got := bucketSizes(formats)
	if got[config.QualityHD] != "80.0MB" {
		t.Errorf("hd = %q, expected 80.0MB", got[config.QualityHD])
	}
	if got[config.Quality720p] != "30.0MB" {
		t.Errorf("720p = %q, expected 30.0MB", got[config.Quality720p])
	}
	if _, ok := got[config.Quality480p]; ok {
		t.Error("480p bucket filled with no matching format")
	}
	if _, ok := got[config.Quality360p]; ok {
		t.Error("360p bucket filled by a sub-360 format")
	}
}

func TestBucketSizesSkipsUnsizedAndHeightless(t *testing.T) {
	formats := []formatInfo{
		{Height: 1080, Filesize: 0},
		{Height: 0, Filesize: 9 * mb},
	}

	got := bucketSizes(formats)
	if _, ok := got[config.QualityHD]; ok {
		t.Error("unsized format was bucketed")
	}
	if _, ok := got[config.Quality360p]; ok {
		t.Error("heightless format was bucketed into a video tier")
	}
}

func TestBucketSizesUsesApproxFallback(t *testing.T) {
	formats := []formatInfo{{Height: 720, FilesizeApprox: 12 * mb}}
	got := bucketSizes(formats)
	if got[config.Quality720p] != "12.0MB" {
		t.Errorf("720p = %q, expected approx size", got[config.Quality720p])
	}
}

func TestBucketSizesAudioFallback(t *testing.T) {
	formats := []formatInfo{{Height: 720, Filesize: 10 * mb, Acodec: "none"}}
	got := bucketSizes(formats)
	if got[config.QualityAudio] != audioFallbackEstimate {
		t.Errorf("audio = %q, expected fallback %q", got[config.QualityAudio], audioFallbackEstimate)
	}
}

func TestBucketSizesAudioPicksSmallest(t *testing.T) {
	formats := []formatInfo{
		{Height: 720, Filesize: 10 * mb, Acodec: "mp4a"},
		{Height: 0, Filesize: 2 * mb, Acodec: "opus"},
	}
	got := bucketSizes(formats)
	if got[config.QualityAudio] != "2.0MB" {
		t.Errorf("audio = %q, expected 2.0MB", got[config.QualityAudio])
	}
}

func TestTierMonotonicity(t *testing.T) {
	formats := []formatInfo{
		{Height: 1080, Filesize: 45 * mb},
		{Height: 1080, Filesize: 38 * mb},
		{Height: 720, Filesize: 22 * mb},
		{Height: 720, Filesize: 18 * mb},
	}

	got := bucketSizes(formats)
	hd := parseMB(t, got[config.QualityHD])
	sd := parseMB(t, got[config.Quality720p])
	if hd < sd {
		t.Errorf("hd estimate %.1fMB below 720p estimate %.1fMB", hd, sd)
	}
}

func parseMB(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "MB"), 64)
	if err != nil {
		t.Fatalf("bad size string %q", s)
	}
	return v
}
