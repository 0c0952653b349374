package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmunix/controlroom/internal/auth"
	"github.com/vmunix/controlroom/internal/diary"
	"github.com/vmunix/controlroom/internal/events"
	"github.com/vmunix/controlroom/internal/finance"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/mediasync"
	"github.com/vmunix/controlroom/internal/notes"
	"github.com/vmunix/controlroom/internal/plex"
)

//go:generate mockgen -destination=mocks/mock_deps.go -package=mocks github.com/vmunix/controlroom/internal/api/v1 Syncer,PlexServer

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Syncer runs library syncs.
type Syncer interface {
	Sync(ctx context.Context, kind library.Kind, requestedBy string) (*mediasync.Result, error)
	Running(kind library.Kind) bool
}

// PlexServer reports media server identity.
type PlexServer interface {
	Identity(ctx context.Context) (*plex.Identity, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Library  *library.Store
	Accounts *auth.Service
	Auth     *auth.Authenticator
	Diary    *diary.Store
	Notes    *notes.Store
	Finance  *finance.Store

	// Optional dependencies (nil if Plex is not configured)
	Syncer Syncer
	Plex   PlexServer

	// Optional: sync history
	EventLog *events.EventLog
	Registry *events.Registry
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	switch {
	case d.Library == nil:
		return fmt.Errorf("%w: library store", ErrMissingDependency)
	case d.Accounts == nil:
		return fmt.Errorf("%w: account service", ErrMissingDependency)
	case d.Auth == nil:
		return fmt.Errorf("%w: authenticator", ErrMissingDependency)
	case d.Diary == nil:
		return fmt.Errorf("%w: diary store", ErrMissingDependency)
	case d.Notes == nil:
		return fmt.Errorf("%w: notes store", ErrMissingDependency)
	case d.Finance == nil:
		return fmt.Errorf("%w: finance store", ErrMissingDependency)
	}
	return nil
}
