package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/stats"
)

func (b *Bot) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := interactionUser(i)

	us := b.deps.Stats.UserStats(ctx, userID)
	gs := b.deps.Stats.GlobalStats(ctx)
	remaining, ceiling := b.deps.Limiter.Status(ctx, userID)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{statsEmbed(us, gs, remaining, ceiling)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("[Bot] Failed to respond to stats: %v", err)
	}
}

func statsEmbed(us stats.UserStats, gs stats.GlobalStats, remaining, ceiling int) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Downloads", Value: fmt.Sprintf("%d", us.TotalDownloads), Inline: true},
		{Name: "Total Size", Value: fmt.Sprintf("%.1f MB", us.TotalSizeMB), Inline: true},
		{Name: "This Hour", Value: fmt.Sprintf("%d of %d left", remaining, ceiling), Inline: true},
	}

	if qualities := qualityBreakdown(us.DownloadsByQuality); qualities != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "By Quality", Value: qualities,
		})
	}
	if history := historyLines(us.History); history != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Recent", Value: history,
		})
	}
	if gs.TotalDownloads > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Community",
			Value: fmt.Sprintf("%d downloads by %d users · %.1f MB total",
				gs.TotalDownloads, gs.TotalUsers, gs.TotalSizeMB),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  "Your Stats",
		Color:  colorProgress,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	if us.TotalDownloads == 0 {
		embed.Description = "No downloads yet. Try /snag with a video link."
	}
	return embed
}

// qualityBreakdown lists per-tier counts in presentation order.
func qualityBreakdown(counts map[string]int) string {
	var lines []string
	for _, tier := range config.Tiers {
		if n := counts[string(tier)]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", config.TierLabel[tier], n))
		}
	}
	return strings.Join(lines, "\n")
}

func historyLines(history []stats.HistoryEntry) string {
	var lines []string
	for _, h := range history {
		lines = append(lines, fmt.Sprintf("%s · %s · %.1f MB · %s",
			h.Timestamp.Format("Jan 2 15:04"), h.Quality, h.SizeMB, h.Platform))
	}
	return strings.Join(lines, "\n")
}
