package library

import (
	"context"
	"fmt"
)

// Stats returns counts and total sizes across both collections.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(json_extract(doc, '$.fileSize')), 0)
		FROM movies`,
	).Scan(&st.MovieCount, &st.MovieBytes)
	if err != nil {
		return nil, fmt.Errorf("movie stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(json_extract(doc, '$.seasonCount')), 0),
			COALESCE(SUM(json_extract(doc, '$.episodeCount')), 0),
			COALESCE(SUM(json_extract(doc, '$.totalFileSize')), 0)
		FROM shows`,
	).Scan(&st.ShowCount, &st.SeasonCount, &st.EpisodeCount, &st.ShowBytes)
	if err != nil {
		return nil, fmt.Errorf("show stats: %w", err)
	}
	return st, nil
}
