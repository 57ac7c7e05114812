package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds server settings
type Config struct {
	Addr         string `mapstructure:"addr"`
	ClientDir    string `mapstructure:"client_dir"`
	MapsDir      string `mapstructure:"maps_dir"` // empty = built-in arena
	DBPath       string `mapstructure:"db_path"`  // empty = accounts disabled
	PublicURL    string `mapstructure:"public_url"`
	RoundSeconds int    `mapstructure:"round_seconds"`
}

// LoadConfig reads configuration from an optional config.yaml (path may be
// empty to rely on defaults) with SHIPBRAWL_* env overrides
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("client_dir", "../client")
	v.SetDefault("maps_dir", "")
	v.SetDefault("db_path", "shipbrawl.db")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("round_seconds", 180)

	v.SetEnvPrefix("shipbrawl")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.RoundSeconds <= 0 {
		return nil, fmt.Errorf("round_seconds must be positive, got %d", cfg.RoundSeconds)
	}
	return &cfg, nil
}
