// Package daemon runs the long-lived event loop: it holds the
// single-instance lock, consumes inbound media events from the transport,
// dispatches one pipeline job per event, and optionally serves Prometheus
// metrics. Shutdown waits for in-flight jobs to reach a terminal state.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/backmassage/renamaster/internal/config"
	"github.com/backmassage/renamaster/internal/pipeline"
	"github.com/backmassage/renamaster/internal/prefs"
	"github.com/backmassage/renamaster/internal/transport"
)

// ErrAlreadyRunning is returned by New when another daemon instance holds
// the lock file.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Daemon owns the runtime resources of one renamaster instance.
type Daemon struct {
	cfg    *config.Config
	log    zerolog.Logger
	runner *pipeline.Runner
	lock   *flock.Flock
}

// New acquires the single-instance lock and wires the pipeline runner.
// The caller must Close the daemon to release the lock.
func New(cfg *config.Config, log zerolog.Logger, client transport.Client, store prefs.Store) (*Daemon, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockPath())
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", cfg.LockPath(), err)
	}
	if !held {
		return nil, ErrAlreadyRunning
	}

	return &Daemon{
		cfg:    cfg,
		log:    log.With().Str("component", "daemon").Logger(),
		runner: pipeline.NewRunner(cfg, log, client, store),
		lock:   lock,
	}, nil
}

// Close releases the single-instance lock.
func (d *Daemon) Close() error {
	return d.lock.Unlock()
}

// Stats returns the aggregate pipeline counters.
func (d *Daemon) Stats() pipeline.Snapshot {
	return d.runner.Stats()
}

// Run consumes events until the channel closes or ctx is cancelled, then
// waits for in-flight jobs to finish. Each event runs on its own goroutine
// so one slow transfer never blocks the rest of the queue.
func (d *Daemon) Run(ctx context.Context, events <-chan transport.Event) error {
	srv, srvErr := d.serveMetrics()

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				outcome := d.runner.Process(ctx, ev)
				d.log.Info().
					Str("file_id", ev.File.ID).
					Str("outcome", string(outcome)).
					Msg("event handled")
			}()
		case err := <-srvErr:
			wg.Wait()
			return fmt.Errorf("metrics listener: %w", err)
		}
	}

	d.log.Info().Msg("shutting down, waiting for in-flight jobs")
	wg.Wait()

	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			d.log.Warn().Err(err).Msg("metrics listener shutdown")
		}
	}

	stats := d.runner.Stats()
	d.log.Info().
		Int64("received", stats.Received).
		Int64("uploaded", stats.Uploaded).
		Int64("failed", stats.Failed).
		Int64("deduped", stats.Deduped).
		Msg("daemon stopped")
	return ctx.Err()
}

// serveMetrics starts the Prometheus listener when metrics_bind is set.
// Returns a nil server and a never-firing channel when disabled.
func (d *Daemon) serveMetrics() (*http.Server, <-chan error) {
	errc := make(chan error, 1)
	if d.cfg.MetricsBind == "" {
		return nil, errc
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: d.cfg.MetricsBind, Handler: mux}

	d.log.Info().Str("addr", d.cfg.MetricsBind).Msg("serving metrics")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	return srv, errc
}
