package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	WebhookURL       string `env:"WEBHOOK_URL"` // empty = long polling

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"` // sqlite | postgres | bolt | memory
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"moyenne.db"`
	BoltPath      string `env:"BOLT_PATH" envDefault:"moyenne.bolt"`

	AdviceTimeout  time.Duration `env:"ADVICE_TIMEOUT" envDefault:"70s"`
	AdviceCacheTTL time.Duration `env:"ADVICE_CACHE_TTL" envDefault:"720h"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"4320h"` // 180 days

	DefaultLang string `env:"DEFAULT_LANG" envDefault:"ar"`
}

// Load reads the environment, after filling unset variables from files
// (default ".env"). Missing files are skipped.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return &cfg, nil
}

// RequireBot checks what the Telegram binary cannot start without.
func (c *Config) RequireBot() error {
	if strings.TrimSpace(c.TelegramBotToken) == "" {
		return errors.New("missing required env TELEGRAM_BOT_TOKEN")
	}
	return nil
}
