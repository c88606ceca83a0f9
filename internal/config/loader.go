package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TRACKER_STORAGE_BACKEND.
const EnvPrefix = "TRACKER"

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, storage.AppName, "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty) and applies
// environment overrides. A missing default file is not an error; a missing
// explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := newViper()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, invalid("config", path,
				"Invalid config file: "+err.Error(),
				"Check the YAML syntax or run 'tracker config show' to see the defaults")
		}
	} else if explicit {
		return nil, invalid("config", path,
			"Config file not found",
			"Check the path passed to --config")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewSystemErrorWithOp("config load", "failed to decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance seeded with defaults. Every key needs a
// default for environment overrides to reach Unmarshal.
func newViper() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("display.heatmap_days", d.Display.HeatmapDays)
	v.SetDefault("display.trend_days", d.Display.TrendDays)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
