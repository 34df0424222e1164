package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
	_ "time/tzdata" // QUOTA_TIME_ZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const minSessionSecretLen = 32

type Config struct {
	AppEnv             string `env:"APP_ENV" default:"development"`
	Port               string `env:"PORT" default:"8080"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI"`
	SessionSecret      string `env:"SESSION_SECRET"`
	RedisURL           string `env:"REDIS_URL"`
	LogLevel           string `env:"LOG_LEVEL" default:"info"`
	LogFormat          string `env:"LOG_FORMAT" default:"text"`

	GroqAPIKey        string        `env:"GROQ_API_KEY"`
	GroqBaseURL       string        `env:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GroqModel         string        `env:"GROQ_MODEL" default:"llama3-8b-8192"`
	GroqTemperature   float64       `env:"GROQ_TEMPERATURE" default:"0.7"`
	GroqMaxTokens     int           `env:"GROQ_MAX_TOKENS" default:"800"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" default:"30s"`

	// Consecutive upstream failures that open the circuit, and how long it stays open.
	BreakerFailures int           `env:"GENERATION_BREAKER_FAILURES" default:"5"`
	BreakerDelay    time.Duration `env:"GENERATION_BREAKER_DELAY" default:"30s"`

	QuotaEmailDaily   int    `env:"QUOTA_EMAIL_DAILY" default:"3"`
	QuotaResumeDaily  int    `env:"QUOTA_RESUME_DAILY" default:"1"`
	QuotaDefaultDaily int    `env:"QUOTA_DEFAULT_DAILY" default:"-1"` // -1 = unlimited
	QuotaTimeZone     string `env:"QUOTA_TIME_ZONE" default:"UTC"`

	// Per-IP request rates (per second) for the generation forms and the OAuth routes.
	ToolRateLimit float64 `env:"TOOL_RATE_LIMIT" default:"1"`
	ToolRateBurst int     `env:"TOOL_RATE_BURST" default:"5"`
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" default:"0.5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" default:"10"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether cookies and redirects must be secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// QuotaLocation is the time zone quota days are counted in.
func (c *Config) QuotaLocation() *time.Location {
	loc, err := time.LoadLocation(c.QuotaTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func validate(cfg *Config) error {
	required := []struct{ name, value string }{
		{"GOOGLE_CLIENT_ID", cfg.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret},
		{"GOOGLE_REDIRECT_URI", cfg.GoogleRedirectURI},
		{"SESSION_SECRET", cfg.SessionSecret},
		{"GROQ_API_KEY", cfg.GroqAPIKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if len(cfg.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}

	redirect, err := url.Parse(cfg.GoogleRedirectURI)
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("GOOGLE_REDIRECT_URI must be an absolute URL, got %q", cfg.GoogleRedirectURI)
	}
	if cfg.IsProduction() && redirect.Scheme != "https" {
		return errors.New("GOOGLE_REDIRECT_URI must use https in production")
	}

	limits := []struct {
		name  string
		value int
	}{
		{"QUOTA_EMAIL_DAILY", cfg.QuotaEmailDaily},
		{"QUOTA_RESUME_DAILY", cfg.QuotaResumeDaily},
		{"QUOTA_DEFAULT_DAILY", cfg.QuotaDefaultDaily},
	}
	for _, l := range limits {
		if l.value < -1 {
			return fmt.Errorf("%s must be -1 (unlimited) or greater, got %d", l.name, l.value)
		}
	}

	if _, err := time.LoadLocation(cfg.QuotaTimeZone); err != nil {
		return fmt.Errorf("QUOTA_TIME_ZONE is not a valid time zone: %w", err)
	}

	if cfg.GroqTemperature < 0 || cfg.GroqTemperature > 2 {
		return fmt.Errorf("GROQ_TEMPERATURE must be between 0 and 2, got %v", cfg.GroqTemperature)
	}
	if cfg.GroqMaxTokens <= 0 {
		return errors.New("GROQ_MAX_TOKENS must be positive")
	}
	if cfg.GenerationTimeout <= 0 {
		return errors.New("GENERATION_TIMEOUT must be positive")
	}
	if cfg.BreakerFailures <= 0 || cfg.BreakerDelay <= 0 {
		return errors.New("GENERATION_BREAKER_FAILURES and GENERATION_BREAKER_DELAY must be positive")
	}
	if cfg.ToolRateLimit <= 0 || cfg.ToolRateBurst <= 0 {
		return errors.New("TOOL_RATE_LIMIT and TOOL_RATE_BURST must be positive")
	}
	if cfg.AuthRateLimit <= 0 || cfg.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}

	return nil
}
