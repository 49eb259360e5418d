package bot

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/store"
)

// Button payloads. Discord round-trips the CustomID verbatim, so it
// carries the action plus just enough state to resume: the cache id
// stands in for the full URL.
func downloadCustomID(tier config.Quality, cacheID string) string {
	return "dl:" + string(tier) + ":" + cacheID
}

func cancelCustomID(cacheID string) string {
	return "cancel:" + cacheID
}

func prefCustomID(tier config.Quality) string {
	return "pref:" + string(tier)
}

// parseCustomID splits a payload into its action and arguments. Unknown
// or malformed payloads return an empty action and are ignored.
func parseCustomID(id string) (action string, args []string) {
	parts := strings.Split(id, ":")
	switch parts[0] {
	case "dl":
		if len(parts) == 3 && config.ValidQuality(parts[1]) {
			return "dl", parts[1:]
		}
	case "cancel":
		if len(parts) == 2 {
			return "cancel", parts[1:]
		}
	case "pref":
		if len(parts) == 2 && config.ValidQuality(parts[1]) {
			return "pref", parts[1:]
		}
	}
	return "", nil
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	action, args := parseCustomID(i.MessageComponentData().CustomID)
	if action == "" {
		return
	}

	// Ack immediately so the button press never times out; the real work
	// edits the message afterwards.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Printf("[Bot] Failed to ack component: %v", err)
		return
	}

	ctx := context.Background()
	userID := interactionUser(i)

	switch action {
	case "dl":
		tier, cacheID := config.Quality(args[0]), args[1]
		url, err := b.deps.URLs.Consume(ctx, cacheID)
		if err != nil {
			if err != store.ErrNotFound {
				log.Printf("[Bot] URL cache read failed: %v", err)
			}
			editEmbed(s, i, errorEmbed("Selection Expired", "That menu is no longer valid. Send the link again."))
			return
		}
		b.deps.Prefs.Set(ctx, userID, "quality", string(tier))
		go b.runDownload(s, i, userID, url, tier)
	case "cancel":
		b.deps.URLs.Discard(ctx, args[0])
		editEmbed(s, i, &discordgo.MessageEmbed{
			Title: "Cancelled", Color: colorError,
			Footer: &discordgo.MessageEmbedFooter{Text: footerText},
		})
	case "pref":
		tier := config.Quality(args[0])
		b.deps.Prefs.Set(ctx, userID, "quality", string(tier))
		components := prefButtons(tier)
		s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Embeds:     &[]*discordgo.MessageEmbed{settingsEmbed(tier)},
			Components: &components,
		})
	}
}
