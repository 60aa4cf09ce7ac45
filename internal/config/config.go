package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName       string        `mapstructure:"SERVICE_NAME"`
	Port              string        `mapstructure:"PORT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MetricsEnabled    bool          `mapstructure:"METRICS_ENABLED"`
	MetricsToken      string        `mapstructure:"METRICS_TOKEN"`
	RateLimitPerMin   int           `mapstructure:"RATE_LIMIT_PER_MIN"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	ReadHeaderTimeout time.Duration `mapstructure:"READ_HEADER_TIMEOUT"`

	// FeedURL is polled every FeedPollInterval when both are set.
	FeedURL          string        `mapstructure:"FEED_URL"`
	FeedPollInterval time.Duration `mapstructure:"FEED_POLL_INTERVAL"`
	FeedTimeout      time.Duration `mapstructure:"FEED_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVICE_NAME":        "products",
	"PORT":                "3000",
	"LOG_LEVEL":           "info",
	"METRICS_ENABLED":     false,
	"METRICS_TOKEN":       "",
	"RATE_LIMIT_PER_MIN":  0,
	"SHUTDOWN_TIMEOUT":    "10s",
	"READ_HEADER_TIMEOUT": "5s",
	"FEED_URL":            "",
	"FEED_POLL_INTERVAL":  "0s",
	"FEED_TIMEOUT":        "3s",
}

// Load reads dir/.env when present and lets environment variables override it.
func Load(dir string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
		if err := v.BindEnv(k); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", k, err)
		}
	}
	v.AutomaticEnv()

	file := filepath.Join(dir, ".env")
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: PORT is required")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MIN must be >= 0, got %d", c.RateLimitPerMin)
	}
	if c.MetricsEnabled && c.MetricsToken == "" {
		return errors.New("config: METRICS_TOKEN is required when METRICS_ENABLED is set")
	}
	if c.FeedPollInterval < 0 {
		return fmt.Errorf("config: FEED_POLL_INTERVAL must be >= 0, got %s", c.FeedPollInterval)
	}
	return nil
}

// PollFeed reports whether a background feed ingest should run.
func (c Config) PollFeed() bool {
	return c.FeedURL != "" && c.FeedPollInterval > 0
}

func (c Config) Addr() string {
	return ":" + c.Port
}
