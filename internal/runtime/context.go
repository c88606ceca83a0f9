// Package runtime wires the store, tracker and formatter for one command run.
package runtime

import (
	"context"
	"io"
	"time"

	"github.com/manav03panchal/dailytracker/internal/config"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/output"
	"github.com/manav03panchal/dailytracker/internal/storage"
	_ "github.com/manav03panchal/dailytracker/internal/storage/sqlstore" // registers the sqlite backend
	"github.com/manav03panchal/dailytracker/internal/tracker"
)

// Context holds the application runtime context.
type Context struct {
	Store     storage.Store
	Tracker   *tracker.Tracker
	Formatter *output.Formatter
	Config    *config.Config

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	// Config supplies storage and display settings. Nil uses defaults.
	Config    *config.Config
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
	// Writer receives command output. Nil uses stdout.
	Writer io.Writer
	// Clock overrides the tracker clock.
	Clock func() time.Time
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Config:    config.DefaultConfig(),
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New opens the configured store and starts a tracker over it. The
// TRACKER_DATABASE environment variable overrides the configured path.
func New(ctx context.Context, opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	storeOpts := cfg.StorageOptions()
	storeOpts.InMemory = opts.InMemory
	store, err := storage.Open(ctx, storeOpts)
	if err != nil {
		return nil, err
	}
	logging.DebugContext(ctx, "store opened", logging.KeyBackend, storeOpts.Backend)

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}
	if opts.Writer != nil {
		formatter.Writer = opts.Writer
	}

	return &Context{
		Store:     store,
		Tracker:   tracker.New(ctx, store, tracker.Options{Clock: opts.Clock}),
		Formatter: formatter,
		Config:    cfg,
		Debug:     opts.Debug,
	}, nil
}

// Close stops the tracker, waiting for pending check-ins, then closes the
// store.
func (c *Context) Close() error {
	if c.Tracker != nil {
		c.Tracker.Close()
	}
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// Now returns the tracker clock's current time.
func (c *Context) Now() time.Time {
	return c.Tracker.Now()
}
