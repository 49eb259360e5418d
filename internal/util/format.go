package util

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

func SanitizeFilename(filename string) string {
	s := unsafeFilenameRe.ReplaceAllString(filename, "_")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "unknown size"
	}
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	if bytes < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.2f GB", float64(bytes)/(1024*1024*1024))
}

func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	mins := seconds / 60
	secs := seconds % 60
	if mins >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", mins/60, mins%60, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
