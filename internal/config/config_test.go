package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 60, cfg.Scheduler.Interval)
	assert.Equal(t, time.Minute, cfg.TickPeriod())
	assert.Equal(t, 30*time.Second, cfg.NotifyTimeout())
	assert.True(t, cfg.KeepAlive.Enabled)
	assert.Equal(t, ":8080", cfg.KeepAlive.Addr)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: US/Eastern
scheduler:
  interval: 30
keepalive:
  enabled: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "US/Eastern", cfg.Timezone)
	assert.Equal(t, 30, cfg.Scheduler.Interval)
	assert.False(t, cfg.KeepAlive.Enabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, cfg.Scheduler.NotifyTimeout)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("REMINDBOT_TIMEZONE", "Asia/Tokyo")
	t.Setenv("REMINDBOT_STORE_PATH", "/var/lib/remindbot/reminders.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, "/var/lib/remindbot/reminders.db", cfg.Store.Path)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.Telegram.BotToken = "123:abc"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }},
		{"missing timezone", func(c *Config) { c.Timezone = "" }},
		{"missing store path", func(c *Config) { c.Store.Path = "" }},
		{"zero interval", func(c *Config) { c.Scheduler.Interval = 0 }},
		{"negative interval", func(c *Config) { c.Scheduler.Interval = -1 }},
		{"zero notify timeout", func(c *Config) { c.Scheduler.NotifyTimeout = 0 }},
		{"keepalive without addr", func(c *Config) { c.KeepAlive.Addr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
