package bot

import (
	"testing"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
)

func TestCustomIDRoundTrip(t *testing.T) {
	tests := []struct {
		id     string
		action string
		args   []string
	}{
		{downloadCustomID(config.Quality720p, "abc123"), "dl", []string{"720p", "abc123"}},
		{downloadCustomID(config.QualityAudio, "ff00ff00"), "dl", []string{"audio", "ff00ff00"}},
		{cancelCustomID("abc123"), "cancel", []string{"abc123"}},
		{prefCustomID(config.QualityHD), "pref", []string{"hd"}},
	}

	for _, test := range tests {
		action, args := parseCustomID(test.id)
		if action != test.action {
			t.Errorf("parseCustomID(%q) action = %q, expected %q", test.id, action, test.action)
		}
		if len(args) != len(test.args) {
			t.Fatalf("parseCustomID(%q) args = %v, expected %v", test.id, args, test.args)
		}
		for i := range args {
			if args[i] != test.args[i] {
				t.Errorf("parseCustomID(%q) args = %v, expected %v", test.id, args, test.args)
			}
		}
	}
}

func TestParseCustomIDRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"dl",
		"dl:720p",
		"dl:4k:abc123",
		"dl:720p:abc:extra",
		"pref:4k",
		"cancel:a:b",
		"unknown:720p:abc",
	}
	for _, id := range bad {
		if action, _ := parseCustomID(id); action != "" {
			t.Errorf("parseCustomID(%q) = %q, expected rejection", id, action)
		}
	}
}
