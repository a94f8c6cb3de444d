package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"timezone": "UTC",
		"telegram": map[string]interface{}{
			"bot_token": "",
		},
		"store": map[string]interface{}{
			"path": "~/.remind-bot/reminders.db",
		},
		"scheduler": map[string]interface{}{
			"interval":       60, // one minute, the matching window granularity
			"notify_timeout": 30,
		},
		"keepalive": map[string]interface{}{
			"enabled": true,
			"addr":    ":8080",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.remind-bot/config.yaml"
}
