// Package config provides configuration handling for netrate.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Missing-value policies for a selected interface that produced no rate.
const (
	MissingZero = "zero"
	MissingHold = "hold"
)

// Config represents the complete netrate configuration.
type Config struct {
	// Interval is the sampling and redraw cadence.
	Interval time.Duration `yaml:"interval"`

	// SampleTimeout bounds a single counter read.
	SampleTimeout time.Duration `yaml:"sample_timeout"`

	// HistorySize is the number of points kept per graph.
	HistorySize int `yaml:"history"`

	// GraceTicks is how many consecutive ticks an interface may be absent
	// before its baseline is dropped.
	GraceTicks int `yaml:"grace_ticks"`

	// Interface selects a single interface; empty means the sum of all.
	Interface string `yaml:"interface"`

	// Missing is the policy for ticks where the selection has no rate.
	Missing string `yaml:"missing"`

	IncludeVirtual  bool `yaml:"include_virtual"`
	IncludeLoopback bool `yaml:"include_loopback"`

	// Logging contains the logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig contains configuration for logging.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `yaml:"level"`

	// File is the log file path. Logging is disabled when empty.
	File string `yaml:"file"`

	// MaxSize is the maximum size of the log file in megabytes.
	MaxSize int `yaml:"max_size"`

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `yaml:"max_backups"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `yaml:"max_age"`
}

// rawConfig mirrors Config with durations as strings so YAML files can use "500ms".
type rawConfig struct {
	Interval        *string        `yaml:"interval"`
	SampleTimeout   *string        `yaml:"sample_timeout"`
	HistorySize     *int           `yaml:"history"`
	GraceTicks      *int           `yaml:"grace_ticks"`
	Interface       *string        `yaml:"interface"`
	Missing         *string        `yaml:"missing"`
	IncludeVirtual  *bool          `yaml:"include_virtual"`
	IncludeLoopback *bool          `yaml:"include_loopback"`
	Logging         *LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Interval:      time.Second,
		SampleTimeout: 500 * time.Millisecond,
		HistorySize:   60,
		GraceTicks:    3,
		Missing:       MissingZero,
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// DefaultPath returns the config file location, honouring NETRATE_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("NETRATE_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "netrate", "config.yaml")
}

// Load builds the effective configuration: defaults, then the file at path
// (skipped when it does not exist), then the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := LoadFromFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile overlays the YAML file at path onto config.
func LoadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if raw.Interval != nil {
		d, err := time.ParseDuration(*raw.Interval)
		if err != nil {
			return fmt.Errorf("%w: interval: %v", ErrInvalid, err)
		}
		config.Interval = d
	}
	if raw.SampleTimeout != nil {
		d, err := time.ParseDuration(*raw.SampleTimeout)
		if err != nil {
			return fmt.Errorf("%w: sample_timeout: %v", ErrInvalid, err)
		}
		config.SampleTimeout = d
	}
	if raw.HistorySize != nil {
		config.HistorySize = *raw.HistorySize
	}
	if raw.GraceTicks != nil {
		config.GraceTicks = *raw.GraceTicks
	}
	if raw.Interface != nil {
		config.Interface = *raw.Interface
	}
	if raw.Missing != nil {
		config.Missing = *raw.Missing
	}
	if raw.IncludeVirtual != nil {
		config.IncludeVirtual = *raw.IncludeVirtual
	}
	if raw.IncludeLoopback != nil {
		config.IncludeLoopback = *raw.IncludeLoopback
	}
	if raw.Logging != nil {
		mergeLogging(&config.Logging, *raw.Logging)
	}

	return nil
}

func mergeLogging(dst *LoggingConfig, src LoggingConfig) {
	if src.Level != "" {
		dst.Level = src.Level
	}
	if src.File != "" {
		dst.File = src.File
	}
	if src.MaxSize != 0 {
		dst.MaxSize = src.MaxSize
	}
	if src.MaxBackups != 0 {
		dst.MaxBackups = src.MaxBackups
	}
	if src.MaxAge != 0 {
		dst.MaxAge = src.MaxAge
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(config *Config) error {
	if val := os.Getenv("NETRATE_INTERVAL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: NETRATE_INTERVAL: %v", ErrInvalid, err)
		}
		config.Interval = d
	}
	if val := os.Getenv("NETRATE_SAMPLE_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: NETRATE_SAMPLE_TIMEOUT: %v", ErrInvalid, err)
		}
		config.SampleTimeout = d
	}
	if val := os.Getenv("NETRATE_HISTORY"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: NETRATE_HISTORY: %v", ErrInvalid, err)
		}
		config.HistorySize = n
	}
	if val := os.Getenv("NETRATE_GRACE_TICKS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: NETRATE_GRACE_TICKS: %v", ErrInvalid, err)
		}
		config.GraceTicks = n
	}
	if val, ok := os.LookupEnv("NETRATE_INTERFACE"); ok {
		config.Interface = val
	}
	if val := os.Getenv("NETRATE_MISSING"); val != "" {
		config.Missing = strings.ToLower(val)
	}
	if val := os.Getenv("NETRATE_INCLUDE_VIRTUAL"); val != "" {
		config.IncludeVirtual = val == "true" || val == "1"
	}
	if val := os.Getenv("NETRATE_INCLUDE_LOOPBACK"); val != "" {
		config.IncludeLoopback = val == "true" || val == "1"
	}
	if val := os.Getenv("NETRATE_LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("NETRATE_LOG_FILE"); val != "" {
		config.Logging.File = val
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalid, c.Interval)
	}
	if c.SampleTimeout <= 0 {
		return fmt.Errorf("%w: sample_timeout must be positive, got %s", ErrInvalid, c.SampleTimeout)
	}
	if c.SampleTimeout > c.Interval {
		return fmt.Errorf("%w: sample_timeout %s exceeds interval %s", ErrInvalid, c.SampleTimeout, c.Interval)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("%w: history must be at least 1, got %d", ErrInvalid, c.HistorySize)
	}
	if c.GraceTicks < 0 {
		return fmt.Errorf("%w: grace_ticks must not be negative, got %d", ErrInvalid, c.GraceTicks)
	}
	switch c.Missing {
	case MissingZero, MissingHold:
	default:
		return fmt.Errorf("%w: missing must be %q or %q, got %q", ErrInvalid, MissingZero, MissingHold, c.Missing)
	}
	return nil
}
