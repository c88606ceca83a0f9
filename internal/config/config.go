// Package config holds user configuration for dailytracker.
package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/progress"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"gopkg.in/yaml.v3"
)

// MaxDays bounds heatmap and trend windows.
const MaxDays = 366

// Backends lists the storage backends a config may name.
var Backends = []string{storage.BackendSQLite, storage.BackendBadger}

// Config is the full user configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// StorageConfig selects the database backend.
type StorageConfig struct {
	// Backend is "sqlite" or "badger".
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path is the database location. Empty uses the XDG data directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds chart defaults.
type DisplayConfig struct {
	HeatmapDays int `mapstructure:"heatmap_days" yaml:"heatmap_days"`
	TrendDays   int `mapstructure:"trend_days" yaml:"trend_days"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: storage.BackendSQLite},
		Display: DisplayConfig{
			HeatmapDays: progress.DefaultHeatmapDays,
			TrendDays:   progress.DefaultTrendDays,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Validate checks the configuration for values the program cannot use.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Storage.Backend) {
		return invalid("storage.backend", c.Storage.Backend,
			"Unknown storage backend",
			"Use one of: "+strings.Join(Backends, ", "))
	}
	if err := checkDays("display.heatmap_days", c.Display.HeatmapDays); err != nil {
		return err
	}
	if err := checkDays("display.trend_days", c.Display.TrendDays); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", c.Log.Level,
			"Unknown log level",
			"Use one of: debug, info, warn, error")
	}
	return nil
}

// invalid builds a user error for a bad config value.
func invalid(field, value, message, suggestion string) *errors.UserError {
	e := errors.NewUserErrorWithField(field, value, message, suggestion)
	e.Cause = errors.ErrInvalidConfig
	return e
}

func checkDays(field string, days int) error {
	if days < 1 || days > MaxDays {
		return invalid(field, fmt.Sprint(days),
			"Day count out of range",
			fmt.Sprintf("Use a value between 1 and %d", MaxDays))
	}
	return nil
}

// StorageOptions converts the storage section into store options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{Backend: c.Storage.Backend, Path: c.Storage.Path}
}

// LoggingConfig converts the log section into a logger configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Log.Level)
	cfg.JSON = c.Log.JSON
	return cfg
}

// Dump renders the configuration as YAML.
func (c *Config) Dump() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return "", errors.NewSystemErrorWithOp("config dump", "failed to encode config", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewSystemErrorWithOp("config dump", "failed to encode config", err)
	}
	return buf.String(), nil
}
