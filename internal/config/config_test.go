package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Backend != storage.BackendSQLite {
		t.Errorf("expected Storage.Backend = sqlite, got %q", cfg.Storage.Backend)
	}
	if cfg.Display.HeatmapDays != 42 {
		t.Errorf("expected Display.HeatmapDays = 42, got %d", cfg.Display.HeatmapDays)
	}
	if cfg.Display.TrendDays != 14 {
		t.Errorf("expected Display.TrendDays = 14, got %d", cfg.Display.TrendDays)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected Log.Level = warn, got %q", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: badger
  path: /tmp/tracker
display:
  heatmap_days: 28
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, storage.BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/tracker", cfg.Storage.Path)
	assert.Equal(t, 28, cfg.Display.HeatmapDays)
	assert.Equal(t, 14, cfg.Display.TrendDays, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "display:\n  trend_days: 7\n")
	t.Setenv("TRACKER_DISPLAY_TREND_DAYS", "30")
	t.Setenv("TRACKER_LOG_JSON", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Display.TrendDays)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad_yaml", "storage: [unclosed"},
		{"unknown_backend", "storage:\n  backend: postgres\n"},
		{"zero_days", "display:\n  heatmap_days: 0\n"},
		{"too_many_days", "display:\n  trend_days: 1000\n"},
		{"bad_level", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.IsUserError(err))
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
		})
	}
}

func TestDump(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/data/tracker.db"

	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "storage:\n  backend: sqlite\n"))

	var back Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	assert.Equal(t, *cfg, back)
}

func TestConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "x.db"
	cfg.Log.Level = "debug"
	cfg.Log.JSON = true

	assert.Equal(t, storage.Options{Backend: "sqlite", Path: "x.db"}, cfg.StorageOptions())
	lc := cfg.LoggingConfig()
	assert.True(t, lc.JSON)
	assert.Equal(t, "DEBUG", lc.Level.String())
}
