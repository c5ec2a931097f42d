// Package config loads CLI configuration from a JSON file merged with
// environment variables. Environment variables win over file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/verdigris/sweep/pkg/logger"
)

// Config is the application configuration.
type Config struct {
	// Workers is the traversal worker count; 0 means one per logical CPU.
	Workers int `json:"workers,omitempty"`

	// TelemetryBuffer is the recorder's event buffer size.
	TelemetryBuffer int `json:"telemetryBuffer,omitempty"`

	// Log configures the logger.
	Log *LogConfig `json:"log,omitempty"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `json:"level,omitempty"`  // debug, info, warn, error
	File   string `json:"file,omitempty"`   // log file path, empty = stderr only
	Prefix string `json:"prefix,omitempty"` // prefix for every log line
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workers:         0,
		TelemetryBuffer: 64,
		Log: &LogConfig{
			Level:  "info",
			Prefix: "[sweep] ",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sweep", "config.json")
}

// Load reads the config file at path (missing file = defaults) and merges
// environment variables over it: SWEEP_WORKERS, SWEEP_LOG_LEVEL,
// SWEEP_LOG_FILE.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			if cfg.Log == nil {
				cfg.Log = Default().Log
			}
		}
	}

	if w := GetEnvInt("SWEEP_WORKERS", 0); w > 0 {
		cfg.Workers = w
	}
	if lvl := os.Getenv("SWEEP_LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if file := os.Getenv("SWEEP_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}

	return cfg, nil
}

// NewLogger creates a logger from the log configuration.
func (c *LogConfig) NewLogger() (*logger.Logger, error) {
	if c == nil {
		c = Default().Log
	}
	return logger.New(logger.Config{
		Level:  logger.ParseLevel(c.Level),
		Prefix: c.Prefix,
		File:   c.File,
	})
}

// GetEnvInt gets an integer environment variable or returns a default.
func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
