package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Fl3xxRichie/vidsnag/internal/bot"
	"github.com/Fl3xxRichie/vidsnag/internal/config"
	"github.com/Fl3xxRichie/vidsnag/internal/ratelimit"
	"github.com/Fl3xxRichie/vidsnag/internal/server"
	"github.com/Fl3xxRichie/vidsnag/internal/services"
	"github.com/Fl3xxRichie/vidsnag/internal/stats"
	"github.com/Fl3xxRichie/vidsnag/internal/store"
	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	if cfg.DiscordToken == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}
	if cfg.DiscordAppID == "" {
		log.Fatal("DISCORD_APP_ID is required")
	}

	server.PrintBanner()

	tools := util.ProbeTools()
	if !tools.Ytdlp {
		log.Fatal("yt-dlp is required on PATH")
	}

	kv := store.Open(cfg.RedisURL)

	engine := services.NewEngine(cfg.DownloadDir, tools, cfg.MaxRetries, cfg.MaxFileSizeMB)
	stop := make(chan struct{})
	engine.StartSweeper(config.SweepInterval, config.SweepMaxAge, stop)

	b, err := bot.New(cfg, tools, bot.Deps{
		Limiter:    ratelimit.New(kv, cfg.RatePerHour, config.RateWindow),
		Prefs:      store.NewPreferences(kv),
		URLs:       store.NewURLCache(kv, config.URLCacheTTL),
		Resolver:   services.NewResolver(tools),
		Engine:     engine,
		Compressor: services.NewCompressor(tools),
		Stats:      stats.NewRecorder(kv),
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	srv := server.New(cfg.Port, kv.Backend(), tools)
	go func() {
		log.Printf("Health server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("Health server stopped: %v", err)
		}
	}()

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	fmt.Println("Bot is running. Press Ctrl+C to stop.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down bot...")
	close(stop)
	srv.Close()
	b.Stop()
	fmt.Println("Bot stopped.")
}
