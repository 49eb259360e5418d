package util

import (
	"regexp"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
)

// Platform identifies the source site of a submitted URL.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformUnknown   Platform = ""
)

var platformPatterns = []struct {
	platform Platform
	re       *regexp.Regexp
}{
	{PlatformTwitter, regexp.MustCompile(`^https?://(?:www\.|mobile\.)?(?:twitter|x)\.com/(?:\w+|i)/status/\d+`)},
	{PlatformInstagram, regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/(?:reel|reels|p|tv)/[\w-]+`)},
	{PlatformTikTok, regexp.MustCompile(`^https?://(?:www\.|m\.)?tiktok\.com/@[\w.-]+/video/\d+`)},
	{PlatformTikTok, regexp.MustCompile(`^https?://(?:vm|vt)\.tiktok\.com/[\w-]+`)},
	{PlatformYouTube, regexp.MustCompile(`^https?://(?:www\.|m\.)?youtube\.com/shorts/[\w-]+`)},
	{PlatformYouTube, regexp.MustCompile(`^https?://youtu\.be/[\w-]+`)},
}

// Matches any supported URL inside free-form message text.
var urlRe = regexp.MustCompile(`https?://\S+`)

// DetectPlatform returns the platform a URL belongs to, or
// PlatformUnknown when no supported pattern matches.
func DetectPlatform(rawURL string) Platform {
	if rawURL == "" || len(rawURL) > config.MaxURLLength {
		return PlatformUnknown
	}
	for _, p := range platformPatterns {
		if p.re.MatchString(rawURL) {
			return p.platform
		}
	}
	return PlatformUnknown
}

// ExtractURLs pulls supported video URLs out of message text, in order,
// deduplicated.
func ExtractURLs(text string) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, candidate := range urlRe.FindAllString(text, -1) {
		if DetectPlatform(candidate) == PlatformUnknown {
			continue
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		urls = append(urls, candidate)
	}
	return urls
}
