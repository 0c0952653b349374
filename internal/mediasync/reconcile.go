// Package mediasync mirrors the Plex catalog into the local library.
package mediasync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/controlroom/internal/library"
)

var (
	// ErrSyncInProgress is returned when a sync of the same kind is already running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrFetchFailed wraps failures to obtain a complete upstream listing.
	// Nothing is reconciled when it is returned.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidRecord indicates a record without an external id or a repeated one.
	ErrInvalidRecord = errors.New("invalid record")
)

// Result summarizes one sync run of a single kind.
type Result struct {
	RunID      string        `json:"runId"`
	EntityType library.Kind  `json:"entityType"`
	Fetched    int           `json:"fetched"`   // records fetched and normalized
	Listed     int           `json:"listed"`    // ids in the upstream listing
	Inserted   int           `json:"inserted"`
	Updated    int           `json:"updated"`
	Unchanged  int           `json:"unchanged"`
	Pruned     int           `json:"pruned"`
	Skipped    int           `json:"skipped"`   // listed items that failed to fetch
	SkippedIDs []string      `json:"skippedIds,omitempty"`
	Duration   time.Duration `json:"-"`
}

// Reconcile makes the kind's collection mirror records within one transaction.
//
// Every record is upserted by external id with full replacement. Every stored id
// outside keep is then deleted. keep is the id set of the completed upstream
// listing; ids of records are always kept. An id that is in keep but has no
// record (its detail fetch failed) is neither updated nor pruned.
//
// On any error the transaction is rolled back and storage is unchanged.
func Reconcile[T library.Record](ctx context.Context, store *library.Store, kind library.Kind, records []T, keep []string) (*Result, error) {
	keepSet := make(map[string]bool, len(keep)+len(records))
	for _, id := range keep {
		keepSet[id] = true
	}
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		id := r.ExternalID()
		if id == "" {
			return nil, fmt.Errorf("%w: %q has no external id", ErrInvalidRecord, r.DisplayTitle())
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate external id %q", ErrInvalidRecord, id)
		}
		seen[id] = true
		keepSet[id] = true
	}

	tx, err := store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res := &Result{EntityType: kind, Fetched: len(records), Listed: len(keep)}
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := tx.Upsert(ctx, kind, r)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case library.Inserted:
			res.Inserted++
		case library.Updated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	stored, err := tx.IDs(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, id := range stored {
		if keepSet[id] {
			continue
		}
		if err := tx.Delete(ctx, kind, id); err != nil {
			return nil, err
		}
		res.Pruned++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit %s reconcile: %w", kind, err)
	}
	committed = true
	return res, nil
}
