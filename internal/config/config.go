// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store provider names accepted by store.provider.
const (
	StoreProviderSQLite   = "sqlite"
	StoreProviderPostgres = "postgres"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// StoreConfig selects and configures the observation store backend.
type StoreConfig struct {
	Provider string `mapstructure:"provider"`
	// Path is the sqlite database file, created at startup if absent.
	Path string `mapstructure:"path"`
	// DSN is the postgres connection string; required when provider is postgres.
	DSN string `mapstructure:"dsn"`
}

// ScraperConfig governs the page extractor.
type ScraperConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	DelayMinSeconds int    `mapstructure:"delay_min_seconds"`
	DelayMaxSeconds int    `mapstructure:"delay_max_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("store.provider", StoreProviderSQLite)
	v.SetDefault("store.path", "prices.db")
	v.SetDefault("scraper.base_url", "https://www.amazon.com")
	v.SetDefault("scraper.timeout_seconds", 15)
	v.SetDefault("scraper.delay_min_seconds", 2)
	v.SetDefault("scraper.delay_max_seconds", 5)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.Store.Provider {
	case StoreProviderSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path must be set when store.provider is sqlite")
		}
	case StoreProviderPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn must be set when store.provider is postgres")
		}
	default:
		return fmt.Errorf("unknown store provider: %s", c.Store.Provider)
	}
	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper.base_url must be set")
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.Scraper.DelayMinSeconds < 0 {
		return fmt.Errorf("scraper.delay_min_seconds must be >= 0")
	}
	if c.Scraper.DelayMaxSeconds < c.Scraper.DelayMinSeconds {
		return fmt.Errorf("scraper.delay_max_seconds must be >= scraper.delay_min_seconds")
	}
	return nil
}

// FetchTimeout converts the scraper timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// DelayBounds converts the scraper delay knobs into durations.
func (c Config) DelayBounds() (time.Duration, time.Duration) {
	return time.Duration(c.Scraper.DelayMinSeconds) * time.Second,
		time.Duration(c.Scraper.DelayMaxSeconds) * time.Second
}
