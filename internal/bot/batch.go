package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/services"
	"github.com/Fl3xxRichie/vidsnag/internal/stats"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

// processBatch downloads several URLs one after another at the user's
// stored default quality. Each item re-checks the rate limit so a batch
// cannot smuggle more downloads than the per-hour ceiling; hitting the
// ceiling stops the batch and the remainder is reported as skipped.
func (b *Bot) processBatch(s *discordgo.Session, i *discordgo.InteractionCreate, urls []string) {
	ctx := context.Background()
	userID := interactionUser(i)

	truncated := 0
	if len(urls) > config.MaxBatchURLs {
		truncated = len(urls) - config.MaxBatchURLs
		urls = urls[:config.MaxBatchURLs]
	}

	tier := b.defaultQuality(ctx, userID)

	delivered, failed, skipped := 0, 0, 0
	for idx, url := range urls {
		if !b.deps.Limiter.CheckAndReserve(ctx, userID) {
			skipped = len(urls) - idx
			break
		}

		label := fmt.Sprintf("Video %d of %d", idx+1, len(urls))
		editEmbed(s, i, progressEmbed("Downloading...", 0, "", "", label))

		if b.batchItem(s, i, userID, url, tier, label) {
			delivered++
		} else {
			failed++
		}
	}

	summary := fmt.Sprintf("%d delivered, %d failed", delivered, failed)
	if skipped > 0 {
		summary += fmt.Sprintf(", %d skipped (rate limit reached)", skipped)
	}
	if truncated > 0 {
		summary += fmt.Sprintf(", %d over the %d-link cap ignored", truncated, config.MaxBatchURLs)
	}

	embed := successEmbed("Batch Complete", "", 0)
	embed.Description = summary
	if delivered == 0 {
		embed.Color = colorError
	}
	editEmbed(s, i, embed)
}

// batchItem fetches and delivers one URL, posting the file as a followup
// message so the main response stays free for progress and the summary.
func (b *Bot) batchItem(s *discordgo.Session, i *discordgo.InteractionCreate, userID, url string, tier config.Quality, label string) bool {
	ctx := context.Background()

	editor := newProgressEditor(func(ev services.ProgressEvent) {
		if ev.Stage == "downloading" {
			editEmbed(s, i, progressEmbed("Downloading...", ev.Percent, ev.Speed, ev.ETA, label))
		}
	})

	art, err := b.deps.Engine.Download(ctx, url, tier, editor.handle)
	if err != nil {
		log.Printf("[Bot] Batch item failed for %s: %v", url, err)
		return false
	}
	defer art.Cleanup()

	path, size := b.shrinkIfNeeded(ctx, art.Path, art.Size, nil)

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	name := util.SanitizeFilename(filepath.Base(path))
	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Files: []*discordgo.File{{Name: name, Reader: f}},
	})
	if err != nil {
		log.Printf("[Bot] Batch followup failed: %v", err)
		return false
	}

	b.deps.Stats.Record(ctx, userID, stats.DownloadRecord{
		Quality:  string(tier),
		Bytes:    size,
		URL:      url,
		Platform: string(util.DetectPlatform(url)),
		Success:  true,
	})
	return true
}
