package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Security
	APIKeySecret string `envconfig:"API_KEY_SECRET" required:"true"`

	// Outbound delivery
	WebhookTimeout    time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
	WebhookMaxFails   int           `envconfig:"WEBHOOK_MAX_FAILURES" default:"10"`
	RetryBaseDelay    time.Duration `envconfig:"WEBHOOK_RETRY_BASE" default:"1s"`
	RetryMaxDelay     time.Duration `envconfig:"WEBHOOK_RETRY_MAX_DELAY" default:"5m"`
	WorkerPollEvery   time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	DispatchQueueSize int           `envconfig:"DISPATCH_QUEUE_SIZE" default:"256"`

	// Inbound ingestion
	DedupWindow time.Duration `envconfig:"DEDUP_WINDOW" default:"24h"`

	// Offline conversions (disabled when the URL is empty)
	ConversionUploadURL string        `envconfig:"CONVERSION_UPLOAD_URL" default:""`
	ConversionTimeout   time.Duration `envconfig:"CONVERSION_TIMEOUT" default:"15s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
