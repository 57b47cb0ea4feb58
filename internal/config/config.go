// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/keshon/axon/internal/access"
)

// Webhook identifies one Discord webhook.
type Webhook struct {
	ID    string `env:"ID"`
	Token string `env:"TOKEN"`
}

// Configured reports whether both id and token are present.
func (w Webhook) Configured() bool {
	return w.ID != "" && w.Token != ""
}

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	TemplatePath string `env:"TEMPLATE_PATH"`

	Owners []string `env:"BOT_OWNERS" envSeparator:","`
	Admins []string `env:"BOT_ADMINS" envSeparator:","`
	Staff  []string `env:"BOT_STAFF" envSeparator:","`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty   bool   `env:"LOG_PRETTY" envDefault:"false"`
	MetricsAddr string `env:"METRICS_ADDR"`

	StatusWebhook Webhook `envPrefix:"WEBHOOK_STATUS_"`
	LoaderWebhook Webhook `envPrefix:"WEBHOOK_LOADER_"`
	ErrorWebhook  Webhook `envPrefix:"WEBHOOK_ERROR_"`
	MiscWebhook   Webhook `envPrefix:"WEBHOOK_MISC_"`
}

// Load reads optional .env files, then parses the process environment.
// With no files given it tries ./.env.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to connect to Discord.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return errors.New("config: DISCORD_TOKEN is not set")
	}
	return nil
}

// Roster builds the bot staff roster from the configured id lists.
func (c *Config) Roster() access.Roster {
	return access.NewRoster(c.Owners, c.Admins, c.Staff)
}

// Webhooks returns the configured webhooks keyed by kind.
func (c *Config) Webhooks() map[string]Webhook {
	return map[string]Webhook{
		"status": c.StatusWebhook,
		"loader": c.LoaderWebhook,
		"error":  c.ErrorWebhook,
		"misc":   c.MiscWebhook,
	}
}
