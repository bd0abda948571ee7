package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Whisper  WhisperConfig  `yaml:"whisper"`
	TTS      TTSConfig      `yaml:"tts"`
	Language LanguageConfig `yaml:"language"`
	Limits   LimitsConfig   `yaml:"limits"`
	Pool     PoolConfig     `yaml:"pool"`
	Log      LogConfig      `yaml:"log"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

type WhisperConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type TTSConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LanguageConfig struct {
	Fallback string `yaml:"fallback"`
}

type LimitsConfig struct {
	MaxFileMB float64 `yaml:"max_file_mb"`
}

type PoolConfig struct {
	Workers int `yaml:"workers"`
	Queue   int `yaml:"queue"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram.token is required")
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Whisper.Model == "" {
		c.Whisper.Model = "whisper-1"
	}
	if c.Language.Fallback == "" {
		c.Language.Fallback = "en"
	}
	if c.Limits.MaxFileMB == 0 {
		c.Limits.MaxFileMB = 25
	}
	if c.Pool.Workers == 0 {
		c.Pool.Workers = 4
	}
	if c.Pool.Queue == 0 {
		c.Pool.Queue = 16
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
