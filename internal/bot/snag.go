package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

func (b *Bot) handleSnag(s *discordgo.Session, i *discordgo.InteractionCreate) {
	text := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "url" {
			text = opt.StringValue()
		}
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Printf("[Bot] Failed to defer snag response: %v", err)
		return
	}

	urls := util.ExtractURLs(text)
	switch len(urls) {
	case 0:
		editEmbed(s, i, errorEmbed("Unsupported Link",
			"Send a video link from Twitter/X, Instagram, TikTok or YouTube Shorts."))
	case 1:
		go b.processSnag(s, i, urls[0])
	default:
		go b.processBatch(s, i, urls)
	}
}

// processSnag runs the single-URL flow up to the quality menu. The
// download itself starts when the user presses a button.
func (b *Bot) processSnag(s *discordgo.Session, i *discordgo.InteractionCreate, url string) {
	ctx := context.Background()
	userID := interactionUser(i)

	if !b.deps.Limiter.CheckAndReserve(ctx, userID) {
		editEmbed(s, i, rateLimitEmbed(b.deps.Limiter.Ceiling()))
		return
	}

	editEmbed(s, i, progressEmbed("Fetching video info...", 0, "", "", url))

	meta := b.deps.Resolver.Resolve(ctx, url)
	if meta == nil {
		editEmbed(s, i, errorEmbed("Could Not Fetch Video",
			"Couldn't read that link. Check the URL and try again."))
		return
	}

	cacheID, err := b.deps.URLs.Put(ctx, url)
	if err != nil {
		log.Printf("[Bot] URL cache write failed: %v", err)
		editEmbed(s, i, errorEmbed("Something Went Wrong", "Please try again."))
		return
	}

	// A fresh user has no starred tier; the star only appears once a
	// preference has been stored.
	components := qualityButtons(meta, cacheID, b.storedQuality(ctx, userID))
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{qualityMenuEmbed(meta)},
		Components: &components,
	})
}

// storedQuality reads the user's saved tier, or zero when none is set.
func (b *Bot) storedQuality(ctx context.Context, userID string) config.Quality {
	v := b.deps.Prefs.Get(ctx, userID, "quality", "")
	if !config.ValidQuality(v) {
		return ""
	}
	return config.Quality(v)
}

// defaultQuality is storedQuality with a 720p fallback, for the flows
// that must pick a tier without asking (batches, the settings display).
func (b *Bot) defaultQuality(ctx context.Context, userID string) config.Quality {
	if q := b.storedQuality(ctx, userID); q != "" {
		return q
	}
	return config.Quality720p
}

func rateLimitEmbed(ceiling int) *discordgo.MessageEmbed {
	return errorEmbed("Rate Limit Reached",
		fmt.Sprintf("You've used all %d downloads for this hour. Try again later.", ceiling))
}
