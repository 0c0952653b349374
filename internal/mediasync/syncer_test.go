package mediasync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/controlroom/internal/events"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/mediasync/mocks"
	"github.com/vmunix/controlroom/internal/plex"
)

func drain(ch <-chan events.Event) []events.Event {
	var out []events.Event
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestSyncer_MoviesWithSkippedDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	db := setupTestDB(t)
	store := library.NewStore(db)
	seedMovies(t, store, "2", "3")

	bus := events.NewBus(events.NewEventLog(db), nil)
	defer bus.Close()
	ch := bus.Subscribe(10)

	fetcher.EXPECT().FetchMovies(gomock.Any(), "").Return(&plex.MovieBatch{
		Movies: []library.Movie{movie("1")},
		Listed: []string{"1", "2"},
		Failed: []plex.ItemError{{ID: "2", Title: "B", Err: context.DeadlineExceeded}},
	}, nil)

	syncer := New(fetcher, store, bus, Config{}, nil)
	res, err := syncer.Sync(context.Background(), library.KindMovies, "7")
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, 2, res.Listed)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Pruned)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"2"}, res.SkippedIDs)
	assert.Equal(t, []string{"1", "2"}, storedIDs(t, store, library.KindMovies))

	got := drain(ch)
	require.Len(t, got, 2)
	started, ok := got[0].(*events.SyncStarted)
	require.True(t, ok)
	assert.Equal(t, "7", started.RequestedBy)
	assert.Equal(t, res.RunID, started.EntityID())
	completed, ok := got[1].(*events.SyncCompleted)
	require.True(t, ok)
	assert.Equal(t, "movies", completed.EntityType())
	assert.Equal(t, 1, completed.Pruned)
	assert.Equal(t, 1, completed.Skipped)

	history, err := events.NewEventLog(db).ForEntity("movies", res.RunID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSyncer_Shows(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	store := library.NewStore(setupTestDB(t))

	fetcher.EXPECT().FetchShows(gomock.Any()).Return(&plex.ShowBatch{
		Shows:  []library.Show{show("A", 2), show("C", 1)},
		Listed: []string{"A", "B", "C"},
		Failed: []plex.ItemError{{ID: "B", Title: "Bravo", Err: errors.New("boom")}},
	}, nil)

	syncer := New(fetcher, store, nil, Config{}, nil)
	res, err := syncer.Sync(context.Background(), library.KindShows, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"A", "C"}, storedIDs(t, store, library.KindShows))
}

func TestSyncer_MovieSectionPassedThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	store := library.NewStore(setupTestDB(t))

	fetcher.EXPECT().FetchMovies(gomock.Any(), "4").Return(&plex.MovieBatch{}, nil)

	syncer := New(fetcher, store, nil, Config{MovieSection: "4"}, nil)
	_, err := syncer.Sync(context.Background(), library.KindMovies, "")
	require.NoError(t, err)
}

func TestSyncer_FetchFailureDoesNotReconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	db := setupTestDB(t)
	store := library.NewStore(db)
	seedMovies(t, store, "1", "2")

	bus := events.NewBus(nil, nil)
	defer bus.Close()
	failedCh := bus.Subscribe(10, events.EventSyncFailed)

	fetcher.EXPECT().FetchMovies(gomock.Any(), "").Return(nil, &plex.SectionNotFoundError{MediaType: "movie"})

	syncer := New(fetcher, store, bus, Config{}, nil)
	_, err := syncer.Sync(context.Background(), library.KindMovies, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, plex.ErrSectionNotFound)

	assert.Equal(t, []string{"1", "2"}, storedIDs(t, store, library.KindMovies), "no pruning after a failed fetch")

	got := drain(failedCh)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].(*events.SyncFailed).Error, "no movie section found")
}

func TestSyncer_RejectsConcurrentSameKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	store := library.NewStore(setupTestDB(t))

	entered := make(chan struct{})
	release := make(chan struct{})
	fetcher.EXPECT().FetchMovies(gomock.Any(), "").DoAndReturn(func(ctx context.Context, _ string) (*plex.MovieBatch, error) {
		close(entered)
		<-release
		return &plex.MovieBatch{Movies: []library.Movie{movie("1")}, Listed: []string{"1"}}, nil
	})
	fetcher.EXPECT().FetchShows(gomock.Any()).Return(&plex.ShowBatch{}, nil)

	syncer := New(fetcher, store, nil, Config{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := syncer.Sync(context.Background(), library.KindMovies, "")
		done <- err
	}()
	<-entered

	assert.True(t, syncer.Running(library.KindMovies))
	_, err := syncer.Sync(context.Background(), library.KindMovies, "")
	assert.ErrorIs(t, err, ErrSyncInProgress)

	// Another kind is not blocked.
	_, err = syncer.Sync(context.Background(), library.KindShows, "")
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, syncer.Running(library.KindMovies))
	assert.Equal(t, []string{"1"}, storedIDs(t, store, library.KindMovies))
}

func TestSyncer_GuardReleasedAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	store := library.NewStore(setupTestDB(t))

	gomock.InOrder(
		fetcher.EXPECT().FetchShows(gomock.Any()).Return(nil, errors.New("connection refused")),
		fetcher.EXPECT().FetchShows(gomock.Any()).Return(&plex.ShowBatch{}, nil),
	)

	syncer := New(fetcher, store, nil, Config{}, nil)
	_, err := syncer.Sync(context.Background(), library.KindShows, "")
	require.Error(t, err)
	_, err = syncer.Sync(context.Background(), library.KindShows, "")
	require.NoError(t, err)
}

func TestSyncer_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	store := library.NewStore(setupTestDB(t))

	fetcher.EXPECT().FetchMovies(gomock.Any(), "").DoAndReturn(func(ctx context.Context, _ string) (*plex.MovieBatch, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return &plex.MovieBatch{}, nil
		}
	})

	syncer := New(fetcher, store, nil, Config{Timeout: 50 * time.Millisecond}, nil)
	_, err := syncer.Sync(context.Background(), library.KindMovies, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestSyncer_UnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := New(mocks.NewMockFetcher(ctrl), library.NewStore(setupTestDB(t)), nil, Config{}, nil)

	_, err := syncer.Sync(context.Background(), library.Kind("albums"), "")
	assert.ErrorIs(t, err, library.ErrUnknownKind)
	assert.False(t, syncer.Running(library.Kind("albums")))
}
