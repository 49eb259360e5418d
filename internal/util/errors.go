package util

import "strings"

// ToUserError maps raw extractor/transport error text to something a
// chat user can act on. Unrecognized errors collapse to a generic line.
func ToUserError(message string) string {
	msg := strings.ToLower(message)

	if strings.Contains(msg, "cancelled") || strings.Contains(msg, "canceled") {
		return "Download cancelled"
	}
	if strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "Download timed out, try again"
	}
	if strings.Contains(msg, "video unavailable") || strings.Contains(msg, "private video") || strings.Contains(msg, "this content is private") {
		return "This video is unavailable or has been removed"
	}
	if strings.Contains(msg, "age-restricted") || strings.Contains(msg, "age restricted") || strings.Contains(msg, "confirm your age") {
		return "This video is age-restricted"
	}
	if strings.Contains(msg, "sign in to confirm") || strings.Contains(msg, "sign in to verify") {
		return "The site is blocking this request, try again later"
	}
	if strings.Contains(msg, "geo restricted") || strings.Contains(msg, "geo-restricted") || strings.Contains(msg, "not available in your country") {
		return "This video isn't available in the bot's region"
	}
	if strings.Contains(msg, "http error 403") || strings.Contains(msg, "403 forbidden") {
		return "Access denied, the site is blocking downloads"
	}
	if strings.Contains(msg, "http error 404") || strings.Contains(msg, "404 not found") {
		return "Video not found, it may have been deleted"
	}
	if strings.Contains(msg, "unsupported url") {
		return "This link type isn't supported"
	}
	if strings.Contains(msg, "max-filesize") || strings.Contains(msg, "file is larger than") {
		return "Video exceeds the size limit"
	}
	if strings.Contains(msg, "no video formats") || strings.Contains(msg, "requested format not available") {
		return "No downloadable formats found"
	}
	if strings.Contains(msg, "rate") && !strings.Contains(msg, "format") {
		return "Rate limited by the site, please wait and try again"
	}
	if strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused") || strings.Contains(msg, "network is unreachable") {
		return "Connection dropped, try again"
	}
	if strings.Contains(msg, "no such host") || strings.Contains(msg, "dns") {
		return "Couldn't reach the site, try again"
	}
	if strings.Contains(msg, "compression unavailable") {
		return "File is too large and compression isn't available"
	}
	if strings.Contains(msg, "downloaded file not found") || strings.Contains(msg, "file not found") {
		return "Download failed"
	}
	return "Download failed"
}
