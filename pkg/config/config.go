// Package config loads the bot and CLI settings from a YAML file, with
// environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvToken      = "VENTMAP_TOKEN"
	EnvMongoDBURI = "VENTMAP_MONGODB_URI"
	EnvTimezone   = "VENTMAP_TIMEZONE"
)

var errMissingCredentials = errors.New(EnvToken + " or " + EnvMongoDBURI + " is not set")

type Config struct {
	Token         string        `yaml:"token"`
	MongoDBURI    string        `yaml:"mongodb_uri"`
	Database      string        `yaml:"database"`
	Timezone      string        `yaml:"timezone"`
	ResetSchedule string        `yaml:"reset_schedule"`
	ReplayTTL     time.Duration `yaml:"replay_ttl"`
	Workers       int           `yaml:"workers"`
	FrameDelay    int           `yaml:"frame_delay"`
	CellSize      int           `yaml:"cell_size"`
}

func Default() Config {
	return Config{
		Database:      "vent_map_bot",
		Timezone:      "UTC",
		ResetSchedule: "@daily",
		ReplayTTL:     time.Hour,
		Workers:       4,
		FrameDelay:    20,
		CellSize:      8,
	}
}

// Load reads path over the defaults and then applies the environment. An
// empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read the config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvMongoDBURI); v != "" {
		cfg.MongoDBURI = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
}

// Validate checks what the bot needs to start.
func (cfg Config) Validate() error {
	if cfg.Token == "" || cfg.MongoDBURI == "" {
		return errMissingCredentials
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if cfg.CellSize < 1 {
		return fmt.Errorf("cell_size must be positive, got %d", cfg.CellSize)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	return nil
}

func (cfg Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}
