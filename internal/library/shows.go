package library

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

func decodeShow(d rawDoc) (*StoredShow, error) {
	s := &StoredShow{LastUpdated: d.lastUpdated}
	if err := json.Unmarshal([]byte(d.doc), &s.Show); err != nil {
		return nil, fmt.Errorf("decode show: %w", err)
	}
	return s, nil
}

// GetShow retrieves a show, with its seasons and episodes, by plex id.
// Returns ErrNotFound if the show is not stored.
func (s *Store) GetShow(ctx context.Context, plexID string) (*StoredShow, error) {
	d, err := getDoc(ctx, s.db, KindShows, plexID)
	if err != nil {
		return nil, err
	}
	return decodeShow(*d)
}

// ListShows returns shows sorted by title and the total matching the filter.
func (s *Store) ListShows(ctx context.Context, f Filter) ([]*StoredShow, int, error) {
	docs, err := listDocs(ctx, s.db, KindShows, f.Query)
	if err != nil {
		return nil, 0, err
	}
	start, end := page(len(docs), f)
	shows := make([]*StoredShow, 0, end-start)
	for _, d := range docs[start:end] {
		show, err := decodeShow(d)
		if err != nil {
			return nil, 0, err
		}
		shows = append(shows, show)
	}
	return shows, len(docs), nil
}
