package bot

import (
	"fmt"
	"io"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/services"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

const (
	colorProgress = 0x5865F2
	colorSuccess  = 0x57F287
	colorError    = 0xED4245

	footerText = "vidsnag"
)

func progressBar(percent float64) string {
	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", 10-filled)
}

func progressEmbed(title string, percent float64, speed, eta, message string) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("%s %d%%", progressBar(percent), int(percent))

	details := []string{}
	if speed != "" {
		details = append(details, speed)
	}
	if eta != "" {
		details = append(details, "~"+eta+" left")
	}
	if len(details) > 0 {
		desc += " · " + strings.Join(details, " · ")
	}
	if message != "" {
		desc += "\n" + message
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: desc,
		Color:       colorProgress,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func successEmbed(title, filename string, fileSize int64) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{}
	if filename != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "File", Value: filename, Inline: true,
		})
	}
	if fileSize > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Size", Value: util.FormatSize(fileSize), Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  colorSuccess,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func errorEmbed(title, message string) *discordgo.MessageEmbed {
	if message == "" {
		message = "Something went wrong"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       colorError,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Try a different URL or quality"},
	}
}

// qualityMenuEmbed shows the resolved video and invites a tier choice.
func qualityMenuEmbed(meta *services.VideoMetadata) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       meta.Title,
		Description: "Pick a quality to download.",
		Color:       colorProgress,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
	if meta.Uploader != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Uploader", Value: meta.Uploader, Inline: true,
		})
	}
	if meta.Duration > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Duration", Value: util.FormatDuration(meta.Duration), Inline: true,
		})
	}
	if meta.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: meta.Thumbnail}
	}
	return embed
}

// qualityButtons builds the tier picker. The user's stored default gets a
// star, and each label carries the size estimate when the extractor
// reported one.
func qualityButtons(meta *services.VideoMetadata, cacheID string, defaultTier config.Quality) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent

	for _, tier := range config.Tiers {
		label := config.TierLabel[tier]
		if est, ok := meta.SizeEstimates[tier]; ok {
			label += " · " + est
		}
		if tier == defaultTier {
			label = "⭐ " + label
		}
		row = append(row, discordgo.Button{
			Label:    label,
			Style:    discordgo.SecondaryButton,
			CustomID: downloadCustomID(tier, cacheID),
		})
		if len(row) == 3 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}

	row = append(row, discordgo.Button{
		Label:    "Cancel",
		Style:    discordgo.DangerButton,
		CustomID: cancelCustomID(cacheID),
	})
	rows = append(rows, discordgo.ActionsRow{Components: row})

	return rows
}

// prefButtons builds the /settings default-quality picker.
func prefButtons(current config.Quality) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent

	for _, tier := range config.Tiers {
		label := config.TierLabel[tier]
		style := discordgo.SecondaryButton
		if tier == current {
			label = "⭐ " + label
			style = discordgo.PrimaryButton
		}
		row = append(row, discordgo.Button{
			Label:    label,
			Style:    style,
			CustomID: prefCustomID(tier),
		})
		if len(row) == 3 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

func editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	noComponents := []discordgo.MessageComponent{}
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &noComponents,
	})
}

func editWithFile(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, filename string, reader io.Reader) error {
	noComponents := []discordgo.MessageComponent{}
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &noComponents,
		Files: []*discordgo.File{
			{Name: filename, Reader: reader},
		},
	})
	return err
}
