package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Timezone  string          `koanf:"timezone"`
	Telegram  TelegramConfig  `koanf:"telegram"`
	Store     StoreConfig     `koanf:"store"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	KeepAlive KeepAliveConfig `koanf:"keepalive"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
}

type StoreConfig struct {
	Path string `koanf:"path"`
}

type SchedulerConfig struct {
	Interval      int `koanf:"interval"`       // tick period, seconds
	NotifyTimeout int `koanf:"notify_timeout"` // per-delivery timeout, seconds
}

type KeepAliveConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// Load reads configuration in precedence order: built-in defaults, then
// the YAML config file (if present), then REMINDBOT_* environment
// variables. TELEGRAM_BOT_TOKEN always wins for the token.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("REMINDBOT_", ".", func(s string) string {
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Common deployment envs mapped onto their keys explicitly; the
	// underscores inside key names defeat a generic transform.
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		if err := k.Set("telegram.bot_token", token); err != nil {
			return nil, fmt.Errorf("failed to apply TELEGRAM_BOT_TOKEN: %w", err)
		}
	}
	if tz := os.Getenv("REMINDBOT_TIMEZONE"); tz != "" {
		if err := k.Set("timezone", tz); err != nil {
			return nil, fmt.Errorf("failed to apply REMINDBOT_TIMEZONE: %w", err)
		}
	}
	if path := os.Getenv("REMINDBOT_STORE_PATH"); path != "" {
		if err := k.Set("store.path", path); err != nil {
			return nil, fmt.Errorf("failed to apply REMINDBOT_STORE_PATH: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (set TELEGRAM_BOT_TOKEN or add to config file)")
	}
	if c.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}
	if c.Scheduler.NotifyTimeout <= 0 {
		return fmt.Errorf("notify timeout must be positive")
	}
	if c.KeepAlive.Enabled && c.KeepAlive.Addr == "" {
		return fmt.Errorf("keepalive addr is required when keepalive is enabled")
	}
	return nil
}

// TickPeriod returns the scheduler interval as a duration.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Scheduler.Interval) * time.Second
}

// NotifyTimeout returns the per-delivery timeout as a duration.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Scheduler.NotifyTimeout) * time.Second
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
