package services

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

const ytdlpCommand = "yt-dlp"

var percentRe = regexp.MustCompile(`([\d.]+)%`)
var speedRe = regexp.MustCompile(`at\s+([\d.]+\s*\w+/s)`)
var etaRe = regexp.MustCompile(`ETA\s+(\S+)`)
var ytdlpErrorRe = regexp.MustCompile(`(?i)ERROR[:\s]+(.+?)(?:\n|$)`)

// ProgressEvent is one discrete status update from a download or encode.
type ProgressEvent struct {
	Stage   string // "downloading", "compressing" or "finished"
	Percent float64
	Speed   string
	ETA     string
}

// ProgressFunc receives every event as it happens; callers collapse
// bursts into a UI-friendly cadence themselves.
type ProgressFunc func(ProgressEvent)

// ParseProgress extracts percent/speed/ETA from one yt-dlp output line.
func ParseProgress(line string) ProgressEvent {
	p := ProgressEvent{Stage: "downloading"}
	if m := percentRe.FindStringSubmatch(line); len(m) > 1 {
		p.Percent, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := speedRe.FindStringSubmatch(line); len(m) > 1 {
		p.Speed = m[1]
	}
	if m := etaRe.FindStringSubmatch(line); len(m) > 1 {
		p.ETA = m[1]
	}
	return p
}

// Artifact is a downloaded file inside its private working directory.
type Artifact struct {
	Path string
	Size int64

	workDir string
}

// Cleanup removes the artifact and its working directory. Safe to call
// more than once and after the file has already been deleted.
func (a *Artifact) Cleanup() {
	if a == nil || a.workDir == "" {
		return
	}
	os.RemoveAll(a.workDir)
}

// Engine runs retrying, timeout-bounded downloads. Every attempt gets a
// fresh uuid-named working directory under the engine root, so failed
// attempts are cleaned by removing the directory and concurrent requests
// never share a path.
type Engine struct {
	root           string
	tools          util.Tools
	maxAttempts    int
	attemptTimeout time.Duration
	maxFileSizeMB  int

	ytdlp string
}

func NewEngine(root string, tools util.Tools, maxAttempts, maxFileSizeMB int) *Engine {
	os.MkdirAll(root, 0o755)
	return &Engine{
		root:           root,
		tools:          tools,
		maxAttempts:    maxAttempts,
		attemptTimeout: config.AttemptTimeout,
		maxFileSizeMB:  maxFileSizeMB,
		ytdlp:          ytdlpCommand,
	}
}

// Download fetches url at the requested tier, retrying up to the attempt
// ceiling. Only the last error surfaces; each failed attempt leaves no
// partial files behind.
func (e *Engine) Download(ctx context.Context, url string, tier config.Quality, onProgress ProgressFunc) (*Artifact, error) {
	platform := util.DetectPlatform(url)
	selector := FormatSelector(platform, tier, e.tools.FFmpeg)

	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		art, err := e.attempt(ctx, url, selector, tier, onProgress)
		if err == nil {
			if onProgress != nil {
				onProgress(ProgressEvent{Stage: "finished", Percent: 100})
			}
			return art, nil
		}
		lastErr = err
		log.Printf("[Engine] Attempt %d/%d failed for %s: %v", attempt, e.maxAttempts, url, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (e *Engine) attempt(parent context.Context, url, selector string, tier config.Quality, onProgress ProgressFunc) (art *Artifact, err error) {
	ctx, cancel := context.WithTimeout(parent, e.attemptTimeout)
	defer cancel()

	workDir := filepath.Join(e.root, uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create working dir: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(workDir)
		}
	}()

	args := e.buildArgs(workDir, selector, tier)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, e.ytdlp, args...)
	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	var stderrOutput strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if p := ParseProgress(line); p.Percent > 0 && onProgress != nil {
				onProgress(p)
			}
		}
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			stderrOutput.WriteString(line + "\n")
			if strings.Contains(line, "[download]") && strings.Contains(line, "%") {
				if p := ParseProgress(line); p.Percent > 0 && onProgress != nil {
					onProgress(p)
				}
			}
		}
	}()

	wg.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("download timed out after %s", e.attemptTimeout)
	}
	if waitErr != nil {
		errMsg := "Download failed"
		if m := ytdlpErrorRe.FindStringSubmatch(stderrOutput.String()); len(m) > 1 {
			errMsg = strings.TrimSpace(m[1])
		}
		return nil, fmt.Errorf("%s", errMsg)
	}

	return findArtifact(workDir)
}

func (e *Engine) buildArgs(workDir, selector string, tier config.Quality) []string {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--newline",
		"--progress-template", "%(progress._percent_str)s",
		"-f", selector,
		"-o", filepath.Join(workDir, "video.%(ext)s"),
	}
	if e.maxFileSizeMB > 0 {
		args = append(args, "--max-filesize", fmt.Sprintf("%dM", e.maxFileSizeMB))
	}
	if tier == config.QualityAudio {
		if e.tools.FFmpeg {
			args = append(args, "-x", "--audio-format", "mp3")
		}
	} else if e.tools.FFmpeg {
		args = append(args, "--merge-output-format", "mp4")
	}
	return args
}

// findArtifact locates the finished file in an attempt's working
// directory, ignoring extractor temp files.
func findArtifact(workDir string) (*Artifact, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read working dir: %w", err)
	}

	var best *Artifact
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ".part") ||
			strings.HasSuffix(name, ".ytdl") || strings.Contains(name, ".part-Frag") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if best == nil || info.Size() > best.Size {
			best = &Artifact{
				Path:    filepath.Join(workDir, name),
				Size:    info.Size(),
				workDir: workDir,
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("downloaded file not found")
	}
	return best, nil
}

// Sweep deletes entries under the download root older than maxAge. It is
// a safety net for artifacts leaked by crashed requests; files vanishing
// between listing and removal are benign.
func (e *Engine) Sweep(maxAge time.Duration) {
	entries, err := os.ReadDir(e.root)
	if err != nil {
		return
	}
	now := time.Now()
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			path := filepath.Join(e.root, entry.Name())
			if err := os.RemoveAll(path); err == nil {
				log.Printf("[Sweep] Removed stale entry: %s", entry.Name())
			}
		}
	}
}

// StartSweeper runs Sweep on a fixed interval until stop is closed.
func (e *Engine) StartSweeper(interval, maxAge time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Sweep(maxAge)
			case <-stop:
				return
			}
		}
	}()
}
