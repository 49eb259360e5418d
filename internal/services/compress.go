package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

const (
	ffmpegCommand  = "ffmpeg"
	ffprobeCommand = "ffprobe"

	audioBitrateKbps    = 128
	minVideoBitrateKbps = 100
	// Encoder variance tolerated before a result counts as a miss.
	sizeTolerance = 1.05
)

// ErrCompressionUnavailable means the transcode tool is missing; the
// caller decides whether to attempt delivery of the oversize original.
var ErrCompressionUnavailable = errors.New("compression unavailable")

// CompressResult reports the file to deliver after size enforcement.
type CompressResult struct {
	Path          string
	OriginalBytes int64
	FinalBytes    int64
	Compressed    bool
}

// Compressor re-encodes oversize artifacts down to a target size.
type Compressor struct {
	tools util.Tools

	ffmpeg  string
	ffprobe string
}

func NewCompressor(tools util.Tools) *Compressor {
	return &Compressor{tools: tools, ffmpeg: ffmpegCommand, ffprobe: ffprobeCommand}
}

// Available reports whether the transcode tool was found at startup.
func (c *Compressor) Available() bool {
	return c.tools.FFmpeg && c.tools.FFprobe
}

// Compress shrinks path to at most targetMB. Files already under the
// target pass through untouched. On success the original is deleted and
// only the compressed file is returned; on failure the original path is
// returned unchanged inside the error flow so the caller can still send
// it.
func (c *Compressor) Compress(ctx context.Context, path string, targetMB int, onProgress ProgressFunc) (*CompressResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	targetBytes := int64(targetMB) * 1024 * 1024
	if info.Size() <= targetBytes {
		return &CompressResult{Path: path, OriginalBytes: info.Size(), FinalBytes: info.Size()}, nil
	}

	if !c.Available() {
		return nil, ErrCompressionUnavailable
	}

	duration, err := c.probeDuration(path)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("cannot size the encode: probed duration %.2fs", duration)
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + "-compressed.mp4"
	args := buildCompressArgs(path, outPath, TargetVideoBitrate(targetMB, duration))

	cmd := exec.CommandContext(ctx, c.ffmpeg, args...)
	stdout, _ := cmd.StdoutPipe()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	go monitorEncodeProgress(stdout, duration, onProgress)

	if err := cmd.Wait(); err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("encoding failed (code %d)", cmd.ProcessState.ExitCode())
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("compressed file missing: %w", err)
	}
	if float64(outInfo.Size()) > float64(targetBytes)*sizeTolerance {
		os.Remove(outPath)
		return nil, fmt.Errorf("compressed file still above %dMB target", targetMB)
	}

	os.Remove(path)
	return &CompressResult{
		Path:          outPath,
		OriginalBytes: info.Size(),
		FinalBytes:    outInfo.Size(),
		Compressed:    true,
	}, nil
}

// TargetVideoBitrate derives the video bitrate in kbps that fits
// targetMB into durationSec. 90% of the target size goes to video; the
// headroom absorbs the fixed 128 kbps audio track and container
// overhead.
func TargetVideoBitrate(targetMB int, durationSec float64) int {
	kbps := int(float64(targetMB) * 8192 * 0.9 / durationSec)
	if kbps < minVideoBitrateKbps {
		return minVideoBitrateKbps
	}
	return kbps
}

func buildCompressArgs(inputPath, outputPath string, videoKbps int) []string {
	bitrate := fmt.Sprintf("%dk", videoKbps)
	return []string{
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-b:v", bitrate,
		"-maxrate", bitrate,
		"-bufsize", fmt.Sprintf("%dk", videoKbps*2),
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", audioBitrateKbps),
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		outputPath,
	}
}

func (c *Compressor) probeDuration(path string) (float64, error) {
	cmd := exec.Command(c.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to probe duration: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorEncodeProgress turns ffmpeg -progress output into percent
// events against the known source duration.
func monitorEncodeProgress(stdout io.Reader, totalDuration float64, onProgress ProgressFunc) {
	if onProgress == nil {
		return
	}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "out_time_us=") {
			continue
		}
		us, err := strconv.ParseInt(strings.TrimPrefix(line, "out_time_us="), 10, 64)
		if err != nil {
			continue
		}
		percent := float64(us) / 1e6 / totalDuration * 100
		if percent > 100 {
			percent = 100
		}
		onProgress(ProgressEvent{Stage: "compressing", Percent: percent})
	}
}
