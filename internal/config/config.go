package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all runtime configuration, parsed from environment variables.
type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// DataFile is the durable snapshot location. The whole file is rewritten
	// after every mutation.
	DataFile string `env:"PULSE_DATA_FILE" envDefault:"data/pulse.json"`

	// MaxFeedbackPerSession caps retained feedback per session. Zero or
	// negative disables the cap.
	MaxFeedbackPerSession int `env:"PULSE_MAX_FEEDBACK_PER_SESSION" envDefault:"200"`

	// SummaryInterval is how often the summary worker logs aggregate metrics.
	SummaryInterval time.Duration `env:"PULSE_SUMMARY_INTERVAL" envDefault:"30s"`

	// FeedbackRatePerSecond and FeedbackBurst bound per-client feedback
	// submissions at the HTTP layer.
	FeedbackRatePerSecond float64 `env:"PULSE_FEEDBACK_RATE" envDefault:"2"`
	FeedbackBurst         int     `env:"PULSE_FEEDBACK_BURST" envDefault:"5"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DataFile == "" {
		return nil, fmt.Errorf("PULSE_DATA_FILE must not be empty")
	}
	if cfg.SummaryInterval <= 0 {
		return nil, fmt.Errorf("PULSE_SUMMARY_INTERVAL must be positive, got %v", cfg.SummaryInterval)
	}
	if cfg.FeedbackRatePerSecond <= 0 {
		return nil, fmt.Errorf("PULSE_FEEDBACK_RATE must be positive, got %v", cfg.FeedbackRatePerSecond)
	}
	if cfg.FeedbackBurst < 1 {
		return nil, fmt.Errorf("PULSE_FEEDBACK_BURST must be at least 1, got %d", cfg.FeedbackBurst)
	}

	return cfg, nil
}
