package util

import (
	"fmt"
	"os/exec"
)

// Tools reports which external executables were found at startup. FFmpeg
// absence constrains YouTube format selection and disables compression;
// it is probed once and treated as constant for the process lifetime.
type Tools struct {
	Ytdlp   bool
	FFmpeg  bool
	FFprobe bool
}

func ProbeTools() Tools {
	var t Tools

	deps := []struct {
		name     string
		found    *bool
		required bool
	}{
		{"yt-dlp", &t.Ytdlp, true},
		{"ffmpeg", &t.FFmpeg, false},
		{"ffprobe", &t.FFprobe, false},
	}

	for _, dep := range deps {
		path, err := exec.LookPath(dep.name)
		if err != nil {
			if dep.required {
				fmt.Printf("✗ %s not found (REQUIRED)\n", dep.name)
			} else {
				fmt.Printf("- %s not found (optional)\n", dep.name)
			}
			continue
		}
		*dep.found = true
		fmt.Printf("✓ %s found: %s\n", dep.name, path)
	}

	return t
}
