package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Report   ReportConfig   `koanf:"report"`
	Analysis AnalysisConfig `koanf:"analysis"`
}

type ServerConfig struct {
	Port     string `koanf:"port"`
	Timezone string `koanf:"timezone"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
}

// ReportConfig points at the external sink that receives the daily
// taken-doses report. Empty endpoint disables delivery.
type ReportConfig struct {
	Endpoint string `koanf:"endpoint"`
}

type AnalysisConfig struct {
	Gemini   GeminiConfig   `koanf:"gemini"`
	DeepSeek DeepSeekConfig `koanf:"deepseek"`
}

type GeminiConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type DeepSeekConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

// Load layers defaults, an optional YAML file and MEDIRA_* environment
// variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("MEDIRA_", ".", func(key string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, "MEDIRA_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}
	if strings.TrimSpace(cfg.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}
