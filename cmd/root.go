// Package cmd provides the CLI commands for the daily tracker.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/config"
	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/output"
	"github.com/manav03panchal/dailytracker/internal/runtime"
	"github.com/manav03panchal/dailytracker/internal/tracker"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
	flagConfig string
)

// annotationNoStore marks commands that run without opening the database.
const annotationNoStore = "no-store"

// loadTimeout bounds how long status waits for the first task snapshot.
const loadTimeout = 5 * time.Second

// ctx is the shared runtime context.
var ctx *runtime.Context

// cfg is the loaded configuration.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Track daily habits from the command line",
	Long: `tracker records check-ins against daily habits and shows your progress
as heatmaps, trends and timelines.

Examples:
  tracker task create "Push-ups" --unit reps --step 5 --target 20
  tracker checkin push-ups
  tracker checkin push-ups --amount 12
  tracker heatmap push-ups
  tracker timeline --date yesterday
  tracker export -o backup.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Annotations[annotationNoStore] == "true" {
			return loadConfig()
		}
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, args)
	},
}

// loadConfig reads the config file and initializes logging.
func loadConfig() error {
	if cfg != nil {
		return nil
	}
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg = loaded

	if flagDebug {
		logging.InitDebug()
	} else {
		logging.Init(cfg.LoggingConfig())
	}
	return nil
}

// setup loads configuration and opens the runtime context.
func setup(cmd *cobra.Command) error {
	if err := loadConfig(); err != nil {
		return err
	}

	format, err := output.ParseFormat(flagFormat)
	if err != nil {
		return errors.NewUserErrorWithField("format", flagFormat, err.Error(), "")
	}
	colorMode, err := output.ParseColorMode(flagColor)
	if err != nil {
		return errors.NewUserErrorWithField("color", flagColor, err.Error(), "")
	}

	opts := runtime.DefaultOptions()
	opts.Config = cfg
	opts.Format = format
	opts.ColorMode = colorMode
	opts.Debug = flagDebug
	opts.Writer = cmd.OutOrStdout()

	ctx, err = runtime.New(cmd.Context(), opts)
	return err
}

// teardown closes the runtime context, if open.
func teardown() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

// runStatus shows the home state: each task with today's progress.
func runStatus(cmd *cobra.Command, args []string) error {
	waitCtx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()
	if err := ctx.Tracker.WaitLoaded(waitCtx); err != nil {
		logging.WarnContext(cmd.Context(), "task snapshot not ready", logging.KeyError, err)
	}

	home := ctx.Tracker.HomeState()
	totals, err := todayTotals(cmd.Context(), home.Tasks)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStatus(home.Kind.String(), home.Tasks, totals)
	}

	cli := ctx.CLIFormatter()
	switch home.Kind {
	case tracker.HomeLoading:
		cli.PrintLoading()
	case tracker.HomeEmpty:
		cli.PrintEmpty()
	default:
		cli.Title(ctx.Now().Format("Monday, January 2"))
		cli.PrintTasks(home.Tasks, totals)
	}
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(logging.WithRun(sigCtx))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default "+config.DefaultPath()+")")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationNoStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("tracker %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil && ctx.IsJSON() {
		ctx.JSONFormatter().PrintError("error", err.Error(), errors.GetSuggestion(err))
	} else {
		os.Stderr.WriteString("Error: " + errors.FormatByCategory(err) + "\n")
		if flagDebug {
			if stack := errors.StackOf(err); len(stack) > 0 {
				os.Stderr.WriteString("\nStack:\n" + errors.FormatStack(stack))
			}
		}
	}
	teardown()
	os.Exit(1)
}
