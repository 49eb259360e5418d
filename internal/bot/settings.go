package bot

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
)

func (b *Bot) handleSettings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	current := b.defaultQuality(context.Background(), interactionUser(i))

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{settingsEmbed(current)},
			Components: prefButtons(current),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("[Bot] Failed to respond to settings: %v", err)
	}
}

func settingsEmbed(current config.Quality) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Default Quality",
		Description: "Current default: **" + config.TierLabel[current] + "**\nThis is used for multi-link batches and pre-starred in the quality menu.",
		Color:       colorProgress,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "How to use",
		Description: "**/snag** `url` — download a video from Twitter/X, Instagram, TikTok or YouTube Shorts.\n" +
			"Paste several links at once to download them all at your default quality.\n\n" +
			"**/settings** — set your default quality.\n" +
			"**/stats** — your download statistics.",
		Color:  colorProgress,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("[Bot] Failed to respond to help: %v", err)
	}
}
