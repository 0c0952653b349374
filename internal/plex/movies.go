package plex

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/controlroom/internal/library"
)

// MediaTypeMovie and MediaTypeShow are the Plex section types that are synced.
const (
	MediaTypeMovie = "movie"
	MediaTypeShow  = "show"
)

var errNoVideo = errors.New("metadata response has no video")

// MovieBatch is the result of a completed movie listing.
// Listed holds every rating key the listing returned, including failed ones.
type MovieBatch struct {
	Movies []library.Movie
	Listed []string
	Failed []ItemError
}

// FetchMovies lists the movie section and fetches each movie's detail concurrently.
// An empty sectionKey resolves the first movie section.
// Errors are returned only when the listing itself cannot be completed;
// a failed detail fetch drops that movie and is reported in Failed.
func (c *Client) FetchMovies(ctx context.Context, sectionKey string) (*MovieBatch, error) {
	if sectionKey == "" {
		key, err := c.SectionKey(ctx, MediaTypeMovie)
		if err != nil {
			return nil, err
		}
		sectionKey = key
	}

	var listing mediaContainer
	if err := c.get(ctx, "library/sections/"+url.PathEscape(sectionKey)+"/all", &listing); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	batch := &MovieBatch{Listed: make([]string, 0, len(listing.Videos))}
	movies := make([]*library.Movie, len(listing.Videos))
	failures := make([]*ItemError, len(listing.Videos))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, item := range listing.Videos {
		if item.RatingKey == "" {
			failures[i] = &ItemError{Title: item.Title, Err: errors.New("missing rating key")}
			continue
		}
		batch.Listed = append(batch.Listed, item.RatingKey)
		g.Go(func() error {
			m, err := c.fetchMovie(ctx, item.RatingKey)
			if err != nil {
				failures[i] = &ItemError{ID: item.RatingKey, Title: item.Title, Err: err}
				return nil
			}
			movies[i] = m
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch movies: %w", err)
	}

	for i := range listing.Videos {
		if movies[i] != nil {
			batch.Movies = append(batch.Movies, *movies[i])
		}
		if f := failures[i]; f != nil {
			c.log.Warn("movie skipped", "plex_id", f.ID, "title", f.Title, "error", f.Err)
			batch.Failed = append(batch.Failed, *f)
		}
	}
	return batch, nil
}

func (c *Client) fetchMovie(ctx context.Context, ratingKey string) (*library.Movie, error) {
	var detail mediaContainer
	if err := c.get(ctx, "library/metadata/"+url.PathEscape(ratingKey), &detail); err != nil {
		return nil, err
	}
	if len(detail.Videos) == 0 {
		return nil, errNoVideo
	}
	m := c.normalizeMovie(ratingKey, detail.Videos[0])
	return &m, nil
}
