package bot

import (
	"log"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"

	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/ratelimit"
	"github.com/Fl3xxRichie/vidsnag/internal/services"
	"github.com/Fl3xxRichie/vidsnag/internal/stats"
	"github.com/Fl3xxRichie/vidsnag/internal/store"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

// Deps bundles the collaborators the bot orchestrates. Everything is
// constructed in main and injected; the bot owns no storage or process
// state of its own.
type Deps struct {
	Limiter    *ratelimit.Limiter
	Prefs      *store.Preferences
	URLs       *store.URLCache
	Resolver   *services.Resolver
	Engine     *services.Engine
	Compressor *services.Compressor
	Stats      *stats.Recorder
}

type Bot struct {
	session *discordgo.Session
	cfg     *config.Config
	tools   util.Tools
	deps    Deps
	cmdIDs  []string
}

func New(cfg *config.Config, tools util.Tools, deps Deps) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		session: s,
		cfg:     cfg,
		tools:   tools,
		deps:    deps,
	}

	s.AddHandler(b.handleInteraction)
	s.Identify.Intents = discordgo.IntentsGuilds

	return b, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return err
	}

	log.Printf("Bot logged in as %s", b.session.State.User.Username)

	for _, cmd := range b.commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.cfg.DiscordAppID, "", cmd)
		if err != nil {
			log.Printf("Failed to register command %s: %v", cmd.Name, err)
			continue
		}
		b.cmdIDs = append(b.cmdIDs, created.ID)
		log.Printf("Registered command: /%s", created.Name)
	}

	return nil
}

func (b *Bot) Stop() {
	for _, id := range b.cmdIDs {
		b.session.ApplicationCommandDelete(b.cfg.DiscordAppID, "", id)
	}
	b.session.Close()
}

func (b *Bot) commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "snag",
			Description: "Download a video from Twitter/X, Instagram, TikTok or YouTube Shorts",
			IntegrationTypes: &[]discordgo.ApplicationIntegrationType{
				discordgo.ApplicationIntegrationGuildInstall,
				discordgo.ApplicationIntegrationUserInstall,
			},
			Contexts: &[]discordgo.InteractionContextType{
				discordgo.InteractionContextGuild,
				discordgo.InteractionContextBotDM,
				discordgo.InteractionContextPrivateChannel,
			},
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "url",
					Description: "The video URL (or several, separated by spaces)",
					Required:    true,
				},
			},
		},
		{
			Name:        "settings",
			Description: "Set your default download quality",
		},
		{
			Name:        "stats",
			Description: "Show your download statistics",
		},
		{
			Name:        "help",
			Description: "How to use the bot",
		},
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Bot] Panic handling interaction: %v\n%s", r, debug.Stack())
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "snag":
			b.handleSnag(s, i)
		case "settings":
			b.handleSettings(s, i)
		case "stats":
			b.handleStats(s, i)
		case "help":
			b.handleHelp(s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

// interactionUser works in both guild and DM contexts.
func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
