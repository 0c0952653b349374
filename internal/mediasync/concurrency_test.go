package mediasync

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/migrations"
)

// Movies and shows reconcile at the same time against a pooled WAL database.
func TestReconcile_KindsConcurrentOnFileDB(t *testing.T) {
	db, err := sql.Open("sqlite", library.DSN(filepath.Join(t.TempDir(), "controlroom.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	store := library.NewStore(db)

	const rounds, size = 10, 200
	ctx := context.Background()
	for round := range rounds {
		movies := make([]library.Movie, size)
		shows := make([]library.Show, size)
		ids := make([]string, size)
		for i := range size {
			ids[i] = fmt.Sprintf("%d-%d", round, i)
			movies[i] = movie(ids[i])
			shows[i] = show(ids[i], 2)
		}

		var g errgroup.Group
		g.Go(func() error {
			_, err := Reconcile(ctx, store, library.KindMovies, movies, ids)
			return err
		})
		g.Go(func() error {
			_, err := Reconcile(ctx, store, library.KindShows, shows, ids)
			return err
		})
		require.NoError(t, g.Wait(), "round %d", round)
	}

	movieIDs, err := store.IDs(ctx, library.KindMovies)
	require.NoError(t, err)
	showIDs, err := store.IDs(ctx, library.KindShows)
	require.NoError(t, err)
	assert.Len(t, movieIDs, size)
	assert.Len(t, showIDs, size)
}
