// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/controlroom/internal/events"
)

// Config for the runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration // default 30s
	EventRetention  time.Duration // 0 disables pruning of the event log
	PruneInterval   time.Duration // default 24h
}

// Runner serves HTTP and runs the background event consumers until its
// context is canceled.
type Runner struct {
	cfg      Config
	handler  http.Handler
	bus      *events.Bus      // may be nil
	eventLog *events.EventLog // may be nil
	logger   *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, handler http.Handler, bus *events.Bus, eventLog *events.EventLog, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.PruneInterval == 0 {
		cfg.PruneInterval = 24 * time.Hour
	}
	return &Runner{
		cfg:      cfg,
		handler:  handler,
		bus:      bus,
		eventLog: eventLog,
		logger:   logger.With("component", "runner"),
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.cfg.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve runs all components on ln. It returns nil after a clean shutdown.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		r.logger.Info("http listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		r.logger.Info("http stopped")
		return nil
	})

	if r.bus != nil {
		ch := r.bus.Subscribe(64)
		g.Go(func() error {
			defer r.bus.Unsubscribe(ch)
			r.watchEvents(ctx, ch)
			return nil
		})
	}

	if r.eventLog != nil && r.cfg.EventRetention > 0 {
		g.Go(func() error {
			r.pruneLoop(ctx)
			return nil
		})
	}

	return g.Wait()
}

// watchEvents logs sync lifecycle events as they are published.
func (r *Runner) watchEvents(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			switch ev := e.(type) {
			case *events.SyncCompleted:
				r.logger.Info("sync run completed",
					"kind", ev.EntityType(), "run_id", ev.EntityID(),
					"inserted", ev.Inserted, "updated", ev.Updated, "pruned", ev.Pruned, "skipped", ev.Skipped)
			case *events.SyncFailed:
				r.logger.Warn("sync run failed", "kind", ev.EntityType(), "run_id", ev.EntityID(), "error", ev.Error)
			default:
				r.logger.Debug("event", "type", e.EventType(), "entity_type", e.EntityType(), "entity_id", e.EntityID())
			}
		}
	}
}

func (r *Runner) pruneLoop(ctx context.Context) {
	r.prune()
	ticker := time.NewTicker(r.cfg.PruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.prune()
		}
	}
}

func (r *Runner) prune() {
	n, err := r.eventLog.Prune(r.cfg.EventRetention)
	if err != nil {
		r.logger.Error("prune events failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("pruned events", "count", n, "retention", r.cfg.EventRetention)
	}
}
