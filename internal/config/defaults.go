package config

import (
	"path/filepath"

	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"port":     "8080",
			"timezone": "Local",
		},
		"database": map[string]interface{}{
			"path": filepath.Join("data", "medira.db"),
		},
		"auth": map[string]interface{}{
			"secret_key": "",
		},
		"report": map[string]interface{}{
			"endpoint": "",
		},
		"analysis": map[string]interface{}{
			"gemini": map[string]interface{}{
				"api_key":  "",
				"model":    "gemini-2.5-flash",
				"base_url": "",
			},
			"deepseek": map[string]interface{}{
				"api_key": "",
				"model":   "deepseek-chat",
			},
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
