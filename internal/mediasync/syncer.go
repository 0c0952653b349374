package mediasync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/controlroom/internal/events"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/plex"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/vmunix/controlroom/internal/mediasync Fetcher

// Fetcher retrieves the normalized upstream catalog.
type Fetcher interface {
	FetchMovies(ctx context.Context, sectionKey string) (*plex.MovieBatch, error)
	FetchShows(ctx context.Context) (*plex.ShowBatch, error)
}

// Publisher receives sync lifecycle events. *events.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Config configures a Syncer.
type Config struct {
	Timeout      time.Duration // bounds a whole run, 0 = unbounded
	MovieSection string        // section key, empty = first movie section
}

// guard serializes runs of one kind. A second run is rejected, not queued.
type guard struct {
	mu      sync.Mutex
	running atomic.Bool
}

// Syncer runs fetch-and-reconcile for movies and shows.
// Runs of the same kind never overlap; different kinds may run concurrently.
type Syncer struct {
	fetcher Fetcher
	store   *library.Store
	bus     Publisher
	cfg     Config
	guards  map[library.Kind]*guard
	log     *slog.Logger
}

// New creates a Syncer. bus may be nil.
func New(fetcher Fetcher, store *library.Store, bus Publisher, cfg Config, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		bus:     bus,
		cfg:     cfg,
		guards: map[library.Kind]*guard{
			library.KindMovies: {},
			library.KindShows:  {},
		},
		log: log.With("component", "sync"),
	}
}

// Running reports whether a sync of kind is in progress.
func (s *Syncer) Running(kind library.Kind) bool {
	g, ok := s.guards[kind]
	return ok && g.running.Load()
}

// Sync fetches the upstream catalog for kind and reconciles storage against it.
// requestedBy identifies the caller in the emitted events.
func (s *Syncer) Sync(ctx context.Context, kind library.Kind, requestedBy string) (*Result, error) {
	g, ok := s.guards[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", library.ErrUnknownKind, kind)
	}
	if !g.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	g.running.Store(true)
	defer func() {
		g.running.Store(false)
		g.mu.Unlock()
	}()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	log := s.log.With("kind", kind, "run_id", runID)
	start := time.Now()
	log.Info("sync started", "requested_by", requestedBy)
	s.publish(ctx, &events.SyncStarted{
		BaseEvent:   events.NewBaseEvent(events.EventSyncStarted, string(kind), runID),
		RequestedBy: requestedBy,
	})

	res, err := s.run(ctx, kind)
	if err != nil {
		log.Error("sync failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		s.publish(ctx, &events.SyncFailed{
			BaseEvent:  events.NewBaseEvent(events.EventSyncFailed, string(kind), runID),
			Error:      err.Error(),
			DurationMS: time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	res.RunID = runID
	res.Duration = time.Since(start)
	if res.Skipped > 0 {
		log.Warn("sync skipped items", "skipped", res.Skipped, "ids", res.SkippedIDs)
	}
	log.Info("sync completed",
		"fetched", res.Fetched,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"pruned", res.Pruned,
		"skipped", res.Skipped,
		"duration_ms", res.Duration.Milliseconds())
	s.publish(ctx, &events.SyncCompleted{
		BaseEvent:  events.NewBaseEvent(events.EventSyncCompleted, string(kind), runID),
		Fetched:    res.Fetched,
		Listed:     res.Listed,
		Inserted:   res.Inserted,
		Updated:    res.Updated,
		Unchanged:  res.Unchanged,
		Pruned:     res.Pruned,
		Skipped:    res.Skipped,
		SkippedIDs: res.SkippedIDs,
		DurationMS: res.Duration.Milliseconds(),
	})
	return res, nil
}

// run fetches and reconciles. Reconciliation only happens against a listing
// that completed; item-level failures are carried into the result as skips.
func (s *Syncer) run(ctx context.Context, kind library.Kind) (*Result, error) {
	var (
		res    *Result
		err    error
		failed []plex.ItemError
	)
	switch kind {
	case library.KindMovies:
		batch, ferr := s.fetcher.FetchMovies(ctx, s.cfg.MovieSection)
		if ferr != nil {
			return nil, fmt.Errorf("%w: movies: %w", ErrFetchFailed, ferr)
		}
		failed = batch.Failed
		res, err = Reconcile(ctx, s.store, kind, batch.Movies, batch.Listed)
	case library.KindShows:
		batch, ferr := s.fetcher.FetchShows(ctx)
		if ferr != nil {
			return nil, fmt.Errorf("%w: shows: %w", ErrFetchFailed, ferr)
		}
		failed = batch.Failed
		res, err = Reconcile(ctx, s.store, kind, batch.Shows, batch.Listed)
	}
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", kind, err)
	}

	res.Skipped = len(failed)
	for _, f := range failed {
		if f.ID != "" {
			res.SkippedIDs = append(res.SkippedIDs, f.ID)
		}
	}
	return res, nil
}

func (s *Syncer) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}
