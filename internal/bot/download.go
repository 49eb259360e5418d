package bot

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/services"
	"github.com/Fl3xxRichie/vidsnag/internal/stats"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

const (
	// Message edits are throttled so a chatty download doesn't hammer the
	// Discord API.
	progressMinInterval = 2 * time.Second
	progressMinDelta    = 5.0
)

// progressEditor collapses the raw event stream into throttled message
// edits. Stage transitions always render; within a stage an edit needs
// both enough elapsed time and enough percent movement.
type progressEditor struct {
	mu          sync.Mutex
	lastEdit    time.Time
	lastPercent float64
	lastStage   string
	edit        func(services.ProgressEvent)
}

func newProgressEditor(edit func(services.ProgressEvent)) *progressEditor {
	return &progressEditor{edit: edit}
}

func (p *progressEditor) handle(ev services.ProgressEvent) {
	p.mu.Lock()
	stageChanged := ev.Stage != p.lastStage
	throttled := time.Since(p.lastEdit) < progressMinInterval ||
		ev.Percent-p.lastPercent < progressMinDelta
	if !stageChanged && throttled {
		p.mu.Unlock()
		return
	}
	p.lastEdit = time.Now()
	p.lastPercent = ev.Percent
	p.lastStage = ev.Stage
	p.mu.Unlock()

	p.edit(ev)
}

// runDownload drives one selected download to delivery: fetch, shrink if
// the transport ceiling demands it, upload, record. The artifact's
// working directory is removed no matter which exit is taken.
func (b *Bot) runDownload(s *discordgo.Session, i *discordgo.InteractionCreate, userID, url string, tier config.Quality) {
	ctx := context.Background()
	platform := util.DetectPlatform(url)

	editor := newProgressEditor(func(ev services.ProgressEvent) {
		switch ev.Stage {
		case "downloading":
			editEmbed(s, i, progressEmbed("Downloading...", ev.Percent, ev.Speed, ev.ETA, ""))
		case "compressing":
			editEmbed(s, i, progressEmbed("Compressing...", ev.Percent, "", "", "Shrinking the file to fit Discord's upload limit."))
		}
	})

	editEmbed(s, i, progressEmbed("Downloading...", 0, "", "", ""))

	art, err := b.deps.Engine.Download(ctx, url, tier, editor.handle)
	if err != nil {
		editEmbed(s, i, errorEmbed("Download Failed", util.ToUserError(err.Error())))
		return
	}
	defer art.Cleanup()

	path, size := b.shrinkIfNeeded(ctx, art.Path, art.Size, editor.handle)

	if err := b.deliver(s, i, path, size); err != nil {
		log.Printf("[Bot] Delivery failed for %s: %v", path, err)
		editEmbed(s, i, errorEmbed("Download Failed", util.ToUserError(err.Error())))
		return
	}

	b.deps.Stats.Record(ctx, userID, stats.DownloadRecord{
		Quality:  string(tier),
		Bytes:    size,
		URL:      url,
		Platform: string(platform),
		Success:  true,
	})
}

// shrinkIfNeeded compresses path down to the transport target when it
// exceeds the upload ceiling. Any compression failure falls through to
// the oversize original: the upload attempt itself is the terminal
// error, so a failed encode never costs the user a delivery that might
// still succeed.
func (b *Bot) shrinkIfNeeded(ctx context.Context, path string, size int64, onProgress services.ProgressFunc) (string, int64) {
	if size <= config.MaxDiscordFileSize {
		return path, size
	}
	res, err := b.deps.Compressor.Compress(ctx, path, config.CompressTargetMB, onProgress)
	if err != nil {
		log.Printf("[Bot] Compression failed for %s, sending as-is: %v", path, err)
		return path, size
	}
	return res.Path, res.FinalBytes
}

func (b *Bot) deliver(s *discordgo.Session, i *discordgo.InteractionCreate, path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := util.SanitizeFilename(filepath.Base(path))
	return editWithFile(s, i, successEmbed("Done", name, size), name, f)
}
