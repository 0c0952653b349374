package library

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

func decodeMovie(d rawDoc) (*StoredMovie, error) {
	m := &StoredMovie{LastUpdated: d.lastUpdated}
	if err := json.Unmarshal([]byte(d.doc), &m.Movie); err != nil {
		return nil, fmt.Errorf("decode movie: %w", err)
	}
	return m, nil
}

// GetMovie retrieves a movie by plex id.
// Returns ErrNotFound if the movie is not stored.
func (s *Store) GetMovie(ctx context.Context, plexID string) (*StoredMovie, error) {
	d, err := getDoc(ctx, s.db, KindMovies, plexID)
	if err != nil {
		return nil, err
	}
	return decodeMovie(*d)
}

// ListMovies returns movies sorted by title and the total matching the filter.
func (s *Store) ListMovies(ctx context.Context, f Filter) ([]*StoredMovie, int, error) {
	docs, err := listDocs(ctx, s.db, KindMovies, f.Query)
	if err != nil {
		return nil, 0, err
	}
	start, end := page(len(docs), f)
	movies := make([]*StoredMovie, 0, end-start)
	for _, d := range docs[start:end] {
		m, err := decodeMovie(d)
		if err != nil {
			return nil, 0, err
		}
		movies = append(movies, m)
	}
	return movies, len(docs), nil
}
