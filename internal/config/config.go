package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Session store backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"production"`
	Debug   bool   `envconfig:"DEBUG" default:"false"`
	Version string `envconfig:"VERSION" default:"dev"`

	BotToken string `envconfig:"BOT_TOKEN"`
	AdminID  int64  `envconfig:"ADMIN_ID"`

	// Menu destinations. Empty values hide the corresponding button.
	WebAppURL   string `envconfig:"WEB_APP_URL"`
	TradeURL    string `envconfig:"TRADE_URL"`
	WebsiteURL  string `envconfig:"WEBSITE_URL"`
	XURL        string `envconfig:"X_URL"`
	BuyURL      string `envconfig:"BUY_URL"`
	ContractURL string `envconfig:"CONTRACT_URL"`

	WelcomePhoto    string `envconfig:"WELCOME_PHOTO" default:"main.jpg"`
	FeedbackMarker  string `envconfig:"FEEDBACK_MARKER" default:"ticket"`
	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"ru"`

	TicketRoute   string        `envconfig:"TICKET_ROUTE"`
	TicketTimeout time.Duration `envconfig:"TICKET_TIMEOUT" default:"10s"`

	SessionBackend string        `envconfig:"SESSION_BACKEND" default:"memory"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"0"`

	MongoDBURI      string `envconfig:"MONGODB_URI"`
	MongoDBDatabase string `envconfig:"MONGODB_DATABASE" default:"ruble_bot"`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
	RateLimit   int    `envconfig:"RATE_LIMIT" default:"20"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SentryDSN == "" {
		log.Warn().Msg("SENTRY_DSN is not set. Error tracking disabled.")
	}
	if cfg.MongoDBURI == "" {
		log.Warn().Msg("MONGODB_URI is not set. Audit log disabled.")
	}
	return cfg, nil
}

// Validate checks that the essential variables are present and consistent.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if c.AdminID == 0 {
		return errors.New("ADMIN_ID is required")
	}
	if c.TicketRoute == "" {
		return errors.New("TICKET_ROUTE is required")
	}
	if c.FeedbackMarker == "" {
		return errors.New("FEEDBACK_MARKER must not be empty")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	return nil
}
