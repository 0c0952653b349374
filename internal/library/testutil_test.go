// internal/library/testutil_test.go
package library

import (
	"database/sql"
	"testing"

	"github.com/vmunix/controlroom/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// one connection, or each query would see its own empty :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func testMovie(id, title string) Movie {
	return Movie{
		PlexID:            id,
		Title:             title,
		TitleWithYear:     title + " (1999)",
		Year:              ptr(1999),
		DurationMinutes:   136,
		DurationFormatted: "2h 16m",
		FileSize:          8_000_000_000,
		Resolution:        "1080p",
		Dimensions:        "1920x1080",
		VideoCodec:        "H264",
		AudioStreams:      []AudioStream{{Language: "English", Codec: "AC3", Channels: 6}},
	}
}

func testShow(id, title string) Show {
	return NewShow(id, title, ptr(2008), []Season{{
		PlexID:       id + "-s1",
		SeasonNumber: 1,
		Episodes: []Episode{
			{PlexID: id + "-e1", Title: "Pilot", SeasonNumber: 1, EpisodeNumber: 1, DurationMinutes: 58, FileSize: 1000},
			{PlexID: id + "-e2", Title: "Second", SeasonNumber: 1, EpisodeNumber: 2, DurationMinutes: 48, FileSize: 2000},
		},
	}})
}
