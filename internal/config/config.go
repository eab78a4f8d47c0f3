// Package config loads worktimer settings from the config file, a .env
// file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvTimeZone = "WORKTIMER_TIME_ZONE"
	EnvDBPath   = "WORKTIMER_DB"
	EnvDebug    = "WORKTIMER_DEBUG"
)

// DefaultTimeZone renders times in the machine's local zone.
const DefaultTimeZone = "Local"

// Config represents the config.toml file.
type Config struct {
	// TimeZone is the IANA zone periods are displayed in.
	TimeZone string `toml:"time-zone"`
	// DBPath is the SQLite file periods are stored in.
	DBPath string `toml:"sqlite-db-path"`
}

// Load reads the config file at path, falling back to defaults for
// anything it does not set. An empty path means DefaultPath. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeZone)); v != "" {
		cfg.TimeZone = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		cfg.DBPath = v
	}

	if cfg.TimeZone == "" {
		cfg.TimeZone = DefaultTimeZone
	}
	if cfg.DBPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.TimeZone = strings.TrimSpace(cfg.TimeZone)
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)
	return &cfg, nil
}

// loadDotEnv sets variables from a .env file without overriding ones the
// process already has.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "worktimer", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "worktimer", "config.toml"), nil
}

// DefaultDBPath returns the default database location.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "worktimer", "worktimer.db"), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
