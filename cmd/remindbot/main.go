// Command remindbot runs the reminder bot: the Telegram command surface,
// the periodic scheduler that fires due reminders, and a keep-alive HTTP
// endpoint for the hosting platform.
//
// Usage:
//
//	./remindbot                 # Run with ~/.remind-bot/config.yaml
//	REMINDBOT_CONFIG=... ./remindbot
//
// Environment:
//
//	TELEGRAM_BOT_TOKEN    Bot API token (required)
//	REMINDBOT_CONFIG      Path to config file (default: ~/.remind-bot/config.yaml)
//	REMINDBOT_TIMEZONE    IANA zone for parsing/display (default: UTC)
//	REMINDBOT_STORE_PATH  Path to SQLite database (default: ~/.remind-bot/reminders.db)
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/notexe/remind-bot/internal/config"
	"github.com/notexe/remind-bot/internal/keepalive"
	"github.com/notexe/remind-bot/internal/reminder"
	"github.com/notexe/remind-bot/internal/scheduler"
	"github.com/notexe/remind-bot/internal/telegram"
	"github.com/notexe/remind-bot/internal/timeconv"
)

func main() {
	configPath := os.Getenv("REMINDBOT_CONFIG")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	conv, err := timeconv.New(cfg.Timezone)
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		log.Fatalf("Failed to create store directory: %v", err)
	}
	store, err := reminder.NewStore(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	svc := reminder.NewService(store, conv)

	bot, err := telegram.New(cfg.Telegram.BotToken, svc)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KeepAlive.Enabled {
		go func() {
			if err := keepalive.Serve(ctx, cfg.KeepAlive.Addr); err != nil {
				log.Printf("[keepalive] server error: %v", err)
			}
		}()
	}

	sched := scheduler.New(store, bot, conv, cfg.TickPeriod(), cfg.NotifyTimeout())
	go func() {
		if err := sched.Run(ctx); err != nil {
			log.Fatalf("Scheduler error: %v", err)
		}
	}()

	bot.HandleUpdates(ctx)
}
