package cmd

import (
	"fmt"
	"time"

	"github.com/jfmyers9/lfm/internal/daemon"
	"github.com/jfmyers9/lfm/internal/scrobbler"
	"github.com/jfmyers9/lfm/pkg/lastfm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	daemonInterval    time.Duration
	daemonKeep        time.Duration
	daemonMetricsAddr string
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Flush the scrobble queue in the background",
	Long: `Run a daemon that submits queued plays to Last.fm.

The daemon will:
- Flush the offline queue on start and then every --interval
- Keep plays that fail to submit pending for the next run
- Flush once more and prune old entries on SIGINT/SIGTERM
- Serve Prometheus metrics on --metrics-addr when set

Plays are added with 'lfm scrobble queue' from another process.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 30*time.Second, "How often to flush the queue")
	daemonCmd.Flags().DurationVar(&daemonKeep, "keep", 7*24*time.Hour, "Prune submitted entries older than this on shutdown")
	daemonCmd.Flags().StringVar(&daemonMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" || cfg.LastFM.SessionKey == "" {
		return fmt.Errorf("Last.fm credentials not configured. Run 'lfm auth' first")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := lastfm.NewMetrics(registry)
	if err != nil {
		return err
	}

	lc := cfg.Client()
	lc.Logger = &logger
	lc.UserAgent = "lfm/" + version
	lc.Metrics = metrics
	client, err := lastfm.NewClient(lc)
	if err != nil {
		return err
	}

	queue, err := openQueue()
	if err != nil {
		return err
	}

	logger.Info().
		Str("version", version).
		Str("queue", cfg.QueueDB).
		Msg("Starting lfm daemon")

	d, err := daemon.New(daemon.Config{
		FlushInterval: daemonInterval,
		Keep:          daemonKeep,
		MetricsAddr:   daemonMetricsAddr,
	}, queue, scrobbler.NewFlusher(queue, client.Scrobble(), &logger), registry, logger)
	if err != nil {
		_ = queue.Close()
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	runErr := d.Run()
	if err := d.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("Error during shutdown")
		if runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return fmt.Errorf("daemon error: %w", runErr)
	}
	return nil
}
