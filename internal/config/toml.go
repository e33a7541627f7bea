// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pable/cricanalyze/internal/dataset"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dataset DatasetConfig `toml:"dataset"`
	Server  ServerConfig  `toml:"server"`
}

// DatasetConfig maps dataset-related settings.
type DatasetConfig struct {
	Source  *string `toml:"source"`
	Timeout *string `toml:"timeout"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr           *string  `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Config is the effective configuration after defaults are applied.
type Config struct {
	Source         string
	Timeout        time.Duration
	Addr           string
	AllowedOrigins []string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Source:         dataset.DefaultURL,
		Timeout:        30 * time.Second,
		Addr:           ":8090",
		AllowedOrigins: []string{"*"},
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Resolve overlays the file values on Defaults.
func (fc FileConfig) Resolve() (Config, error) {
	cfg := Defaults()
	if fc.Dataset.Source != nil && *fc.Dataset.Source != "" {
		cfg.Source = *fc.Dataset.Source
	}
	if fc.Dataset.Timeout != nil {
		d, err := time.ParseDuration(*fc.Dataset.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("dataset.timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("dataset.timeout must be positive, got %s", d)
		}
		cfg.Timeout = d
	}
	if fc.Server.Addr != nil && *fc.Server.Addr != "" {
		cfg.Addr = *fc.Server.Addr
	}
	if len(fc.Server.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = append([]string(nil), fc.Server.AllowedOrigins...)
	}
	return cfg, nil
}

// Load reads path and resolves it.
func Load(path string) (Config, error) {
	fc, err := LoadConfig(path)
	if err != nil {
		return Config{}, err
	}
	return fc.Resolve()
}
