package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/lfm/internal/config"
	"github.com/jfmyers9/lfm/internal/telemetry"
	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	configDir    string
	logLevel     string
	traceEnabled bool
	outputFormat string

	cfg            *config.Config
	logger         zerolog.Logger
	shutdownTracer func(context.Context) error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lfm",
	Short: "Command line client for the Last.fm API",
	Long: `lfm talks to the Last.fm API from the command line.

It looks up tracks, artists, albums, tags, users and charts, manages
loved tracks and tags, and scrobbles plays, either directly or through
an offline queue that is flushed later.

Credentials are read from ~/.config/lfm/config.yaml, a .env file or the
environment (LFM_LASTFM_API_KEY or LASTFM_API_KEY, and so on). Run
'lfm auth' to obtain a session key for write operations.`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTracer == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracer(ctx)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.config/lfm)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "Write OpenTelemetry spans for API calls to stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Go template applied to each result (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configDir == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(configDir)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger = setupLogger(level)

	if traceEnabled {
		shutdownTracer, err = telemetry.InitTracer("lfm", version, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}
	return nil
}

// setupLogger creates a console logger on stderr at the given level.
func setupLogger(logLevel string) zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// newClient builds a Last.fm client from the loaded configuration.
func newClient() (*lastfm.Client, error) {
	lc := cfg.Client()
	lc.Logger = &logger
	lc.UserAgent = "lfm/" + version

	client, err := lastfm.NewClient(lc)
	if err != nil {
		return nil, fmt.Errorf("%w (set lastfm.api_key in %s or LASTFM_API_KEY)", err, cfg.Path())
	}
	return client, nil
}

// format returns the output template to use, if any.
func format() string {
	if outputFormat != "" {
		return outputFormat
	}
	if cfg != nil {
		return cfg.OutputFormat
	}
	return ""
}
