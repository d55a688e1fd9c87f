package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Replica ReplicaConfig
	Sync    SyncConfig
	UI      UIConfig
}

// ReplicaConfig holds local replica store settings.
type ReplicaConfig struct {
	Path           string
	MigrationsPath string
}

// SyncConfig holds settings for the demo replication feed.
type SyncConfig struct {
	DemoFeed       bool
	FeedIntervalMS int
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string
	DateFormat     string
	PageSize       int
}

// Load reads configuration from file and env. Env var overrides use prefix STOCKLENS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("replica.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "stocklens", "replica.db"))
	v.SetDefault("replica.migrations_path", "internal/replica/migrations")
	v.SetDefault("sync.demo_feed", true)
	v.SetDefault("sync.feed_interval_ms", 4000)
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.page_size", 20)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("STOCKLENS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "stocklens"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STOCKLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// Used by the settings view for non-sensitive preferences.
func Save(cfg Config) error {
	path := os.Getenv("STOCKLENS_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "stocklens", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("replica.path", cfg.Replica.Path)
	v.Set("replica.migrations_path", cfg.Replica.MigrationsPath)
	v.Set("sync.demo_feed", cfg.Sync.DemoFeed)
	v.Set("sync.feed_interval_ms", cfg.Sync.FeedIntervalMS)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.page_size", cfg.UI.PageSize)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
