package mediasync

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")
	return db
}

func movie(id string) library.Movie {
	return library.Movie{
		PlexID:            id,
		Title:             "Movie " + id,
		TitleWithYear:     "Movie " + id,
		DurationFormatted: "0m",
		Resolution:        "Unknown",
		Dimensions:        "Unknown",
		VideoCodec:        "Unknown",
		AudioStreams:      []library.AudioStream{},
	}
}

func show(id string, episodes int) library.Show {
	eps := make([]library.Episode, episodes)
	for i := range eps {
		eps[i] = library.Episode{PlexID: fmt.Sprintf("%s-e%d", id, i+1), SeasonNumber: 1, EpisodeNumber: i + 1, FileSize: 100}
	}
	return library.NewShow(id, "Show "+id, nil, []library.Season{{PlexID: id + "-s1", SeasonNumber: 1, Episodes: eps}})
}

func seedMovies(t *testing.T, store *library.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := store.Upsert(context.Background(), library.KindMovies, movie(id))
		require.NoError(t, err)
	}
}

func storedIDs(t *testing.T, store *library.Store, kind library.Kind) []string {
	t.Helper()
	ids, err := store.IDs(context.Background(), kind)
	require.NoError(t, err)
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// dumpTable returns every column of every row so runs can be compared byte for byte.
func dumpTable(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT id, plex_id, title, doc, last_updated FROM " + table + " ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id int64
		var plexID, title, doc string
		var updated any
		require.NoError(t, rows.Scan(&id, &plexID, &title, &doc, &updated))
		out = append(out, fmt.Sprintf("%d|%s|%s|%s|%v", id, plexID, title, doc, updated))
	}
	require.NoError(t, rows.Err())
	return out
}
