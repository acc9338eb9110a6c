// README: Config loader with env defaults for HTTP, upstream APIs, DB, Redis, and assistant settings.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string `env:"FERRYCHAT_HTTP_ADDR" envDefault:":8080"`
	Environment string `env:"FERRYCHAT_ENV" envDefault:"development"`

	// Upstream booking APIs.
	RoutesAPIURL string `env:"FERRYCHAT_ROUTES_API_URL" envDefault:"http://localhost:3000/api/routes"`
	TripsAPIURL  string `env:"FERRYCHAT_TRIPS_API_URL" envDefault:"http://localhost:3000/api/trips"`
	ConfigAPIURL string `env:"FERRYCHAT_CONFIG_API_URL" envDefault:"http://localhost:3000/api/agent-config"`

	DB struct {
		// Empty DSN disables the assistant usage meter.
		DSN string `env:"FERRYCHAT_DB_DSN" envDefault:""`
	}
	Redis struct {
		Addr     string `env:"FERRYCHAT_REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"FERRYCHAT_REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"FERRYCHAT_REDIS_DB" envDefault:"0"`
	}
	Catalog struct {
		CacheTTLSeconds int `env:"FERRYCHAT_CATALOG_CACHE_TTL" envDefault:"300"`
	}

	Assistant struct {
		// Provider selects the free-form fallback backend: "gemini", "chatgpt" or "remote".
		Provider   string `env:"FERRYCHAT_ASSISTANT_PROVIDER" envDefault:"gemini"`
		GeminiKey  string `env:"GEMINI_API_KEY" envDefault:""`
		OpenAIKey  string `env:"OPENAI_API_KEY" envDefault:""`
		ChatAPIURL string `env:"FERRYCHAT_CHAT_API_URL" envDefault:""`
	}

	Logger struct {
		Level  string `env:"FERRYCHAT_LOG_LEVEL" envDefault:"INFO"`
		Format string `env:"FERRYCHAT_LOG_FORMAT" envDefault:"text"`
	}
}

func Load() (Config, error) {
	// Best effort; the normal deployment path sets real environment variables.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func (c Config) validate() error {
	switch strings.ToLower(c.Assistant.Provider) {
	case "gemini":
		if c.Assistant.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when the assistant provider is gemini")
		}
	case "chatgpt":
		if c.Assistant.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when the assistant provider is chatgpt")
		}
	case "remote":
		if c.Assistant.ChatAPIURL == "" {
			return fmt.Errorf("FERRYCHAT_CHAT_API_URL is required when the assistant provider is remote")
		}
	default:
		return fmt.Errorf("unknown assistant provider %q", c.Assistant.Provider)
	}
	return nil
}
