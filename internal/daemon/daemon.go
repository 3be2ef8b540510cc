package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jfmyers9/lfm/internal/scrobbler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config holds daemon configuration
type Config struct {
	FlushInterval time.Duration // How often to drain the scrobble queue
	Keep          time.Duration // Submitted entries older than this are pruned on shutdown
	MetricsAddr   string        // Serve /metrics on this address when set
}

// Daemon drains the scrobble queue in the background until it is stopped.
type Daemon struct {
	config   Config
	queue    *scrobbler.Queue
	flusher  *scrobbler.Flusher
	registry *prometheus.Registry
	pending  prometheus.Gauge
	flushed  *prometheus.CounterVec
	logger   zerolog.Logger
}

// New creates a Daemon. Its collectors are registered with registry, which
// is also what the metrics endpoint serves; a nil registry gets a fresh one.
func New(cfg Config, queue *scrobbler.Queue, flusher *scrobbler.Flusher, registry *prometheus.Registry, logger zerolog.Logger) (*Daemon, error) {
	if cfg.FlushInterval <= 0 {
		return nil, fmt.Errorf("flush interval must be positive, got %s", cfg.FlushInterval)
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	d := &Daemon{
		config:   cfg,
		queue:    queue,
		flusher:  flusher,
		registry: registry,
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lfm",
			Name:      "queue_pending",
			Help:      "Plays waiting in the scrobble queue.",
		}),
		flushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lfm",
			Name:      "queue_flushed_total",
			Help:      "Queued plays submitted to Last.fm by outcome.",
		}, []string{"outcome"}),
		logger: logger.With().Str("component", "daemon").Logger(),
	}
	for _, c := range []prometheus.Collector{d.pending, d.flushed} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return d, nil
}

// Handler serves the daemon's registry in the Prometheus text format.
func (d *Daemon) Handler() http.Handler {
	return promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})
}

// Run starts the daemon and blocks until shutdown signal received
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Handle first signal gracefully, second signal forces exit
	go func() {
		<-sigChan
		d.logger.Info().Msg("Shutdown signal received, initiating graceful shutdown")
		cancel()

		<-sigChan
		d.logger.Warn().Msg("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()

	return d.run(ctx)
}

// run is the main daemon loop
func (d *Daemon) run(ctx context.Context) error {
	d.logger.Info().Dur("interval", d.config.FlushInterval).Msg("Starting daemon")

	var (
		wg        sync.WaitGroup
		serverErr error
	)

	var server *http.Server
	if d.config.MetricsAddr != "" {
		// Bind before flushing so a taken port fails the start.
		ln, err := net.Listen("tcp", d.config.MetricsAddr)
		if err != nil {
			d.logger.Error().Err(err).Str("addr", d.config.MetricsAddr).Msg("Failed to start metrics server")
			return fmt.Errorf("metrics server: %w", err)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", d.Handler())
		server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		wg.Add(1)
		go func() {
			defer wg.Done()
			d.logger.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")
			if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.logger.Error().Err(err).Msg("Metrics server stopped")
				serverErr = fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	d.processQueue(ctx)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn().Err(err).Msg("Failed to stop metrics server")
		}
		cancel()
	}
	wg.Wait()

	d.logger.Info().Msg("Daemon stopped")
	return serverErr
}

// processQueue drains the queue on start, on every tick and once more
// before returning.
func (d *Daemon) processQueue(ctx context.Context) {
	ticker := time.NewTicker(d.config.FlushInterval)
	defer ticker.Stop()

	d.flush(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("Processing final scrobbles before shutdown")
			finalCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			d.flush(finalCtx)
			cancel()
			return
		case <-ticker.C:
			d.flush(ctx)
		}
	}
}

// flush submits pending plays and refreshes the queue metrics.
func (d *Daemon) flush(ctx context.Context) {
	report, err := d.flusher.Flush(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Failed to flush queue")
	}
	d.flushed.WithLabelValues("accepted").Add(float64(report.Accepted))
	d.flushed.WithLabelValues("ignored").Add(float64(report.Ignored))
	d.flushed.WithLabelValues("failed").Add(float64(report.Failed))

	stats, err := d.queue.Stats(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to read queue stats")
		return
	}
	d.pending.Set(float64(stats.Pending))
}

// Shutdown prunes old queue entries and closes the queue.
func (d *Daemon) Shutdown() error {
	d.logger.Info().Msg("Shutting down daemon")

	if d.config.Keep > 0 {
		deleted, err := d.queue.Prune(context.Background(), time.Now(), d.config.Keep)
		if err != nil {
			d.logger.Warn().Err(err).Msg("Failed to prune queue")
		} else if deleted > 0 {
			d.logger.Info().Int64("deleted", deleted).Msg("Pruned queue")
		}
	}

	if err := d.queue.Close(); err != nil {
		return fmt.Errorf("failed to close queue: %w", err)
	}
	return nil
}
