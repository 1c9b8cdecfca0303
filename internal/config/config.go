package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config represents environment-derived settings. Defaults reproduce the
// constants the import job has always run with, so an empty environment
// behaves exactly like the hardcoded setup.
type Config struct {
	ServerBaseURL  string
	RosterPath     string
	RosterPatterns []string

	HealthMaxAttempts int
	HealthInterval    time.Duration
	HealthTimeout     time.Duration
	StatusTimeout     time.Duration
	UploadTimeout     time.Duration
}

type in struct {
	ServerBaseURL  string `env:"SERVER_BASE_URL, default=http://localhost:3000"`
	RosterPath     string `env:"ROSTER_PATH, default=Контингент 01.11.2025.docx"`
	RosterPatterns string `env:"ROSTER_PATTERNS, default=*.docx"`

	HealthMaxAttempts int           `env:"HEALTH_MAX_ATTEMPTS, default=30"`
	HealthInterval    time.Duration `env:"HEALTH_INTERVAL, default=5s"`
	HealthTimeout     time.Duration `env:"HEALTH_TIMEOUT, default=5s"`
	StatusTimeout     time.Duration `env:"STATUS_TIMEOUT, default=30s"`
	UploadTimeout     time.Duration `env:"UPLOAD_TIMEOUT, default=90s"`
}

// Load reads .env (if present) and validates settings.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var input in
	if err := envconfig.Process(ctx, &input); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerBaseURL:     strings.TrimRight(strings.TrimSpace(input.ServerBaseURL), "/"),
		RosterPath:        strings.TrimSpace(input.RosterPath),
		HealthMaxAttempts: input.HealthMaxAttempts,
		HealthInterval:    input.HealthInterval,
		HealthTimeout:     input.HealthTimeout,
		StatusTimeout:     input.StatusTimeout,
		UploadTimeout:     input.UploadTimeout,
	}

	for _, part := range strings.Split(input.RosterPatterns, ",") {
		pattern := strings.TrimSpace(part)
		if pattern != "" {
			cfg.RosterPatterns = append(cfg.RosterPatterns, pattern)
		}
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	parsed, err := url.Parse(cfg.ServerBaseURL)
	if err != nil {
		return fmt.Errorf("SERVER_BASE_URL %q is not a valid URL: %w", cfg.ServerBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("SERVER_BASE_URL %q must use http or https", cfg.ServerBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("SERVER_BASE_URL %q is missing a host", cfg.ServerBaseURL)
	}

	if cfg.RosterPath == "" {
		return fmt.Errorf("ROSTER_PATH must not be empty")
	}
	if cfg.HealthMaxAttempts < 1 {
		return fmt.Errorf("HEALTH_MAX_ATTEMPTS must be positive, got %d", cfg.HealthMaxAttempts)
	}

	for name, d := range map[string]time.Duration{
		"HEALTH_INTERVAL": cfg.HealthInterval,
		"HEALTH_TIMEOUT":  cfg.HealthTimeout,
		"STATUS_TIMEOUT":  cfg.StatusTimeout,
		"UPLOAD_TIMEOUT":  cfg.UploadTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	return nil
}
