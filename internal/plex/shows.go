package plex

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/controlroom/internal/library"
)

// allEpisodesTitle is the synthetic season some servers emit that aggregates every
// episode of a show. It is not a real season.
const allEpisodesTitle = "All episodes"

// ShowBatch is the result of a completed show listing.
// Listed holds every rating key the listing returned, including failed ones.
type ShowBatch struct {
	Shows  []library.Show
	Listed []string
	Failed []ItemError
}

// FetchShows lists the show section and walks each show's seasons and episodes.
// Shows are processed concurrently. A show whose hierarchy cannot be fetched is
// dropped entirely and reported in Failed; it never appears partially.
func (c *Client) FetchShows(ctx context.Context) (*ShowBatch, error) {
	sectionKey, err := c.SectionKey(ctx, MediaTypeShow)
	if err != nil {
		return nil, err
	}

	var listing mediaContainer
	if err := c.get(ctx, "library/sections/"+url.PathEscape(sectionKey)+"/all", &listing); err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}

	batch := &ShowBatch{Listed: make([]string, 0, len(listing.Directories))}
	shows := make([]*library.Show, len(listing.Directories))
	failures := make([]*ItemError, len(listing.Directories))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, item := range listing.Directories {
		if item.RatingKey == "" {
			failures[i] = &ItemError{Title: item.Title, Err: errors.New("missing rating key")}
			continue
		}
		batch.Listed = append(batch.Listed, item.RatingKey)
		g.Go(func() error {
			show, err := c.fetchShow(ctx, item)
			if err != nil {
				failures[i] = &ItemError{ID: item.RatingKey, Title: item.Title, Err: err}
				return nil
			}
			shows[i] = show
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch shows: %w", err)
	}

	for i := range listing.Directories {
		if shows[i] != nil {
			batch.Shows = append(batch.Shows, *shows[i])
		}
		if f := failures[i]; f != nil {
			c.log.Warn("show skipped", "plex_id", f.ID, "title", f.Title, "error", f.Err)
			batch.Failed = append(batch.Failed, *f)
		}
	}
	return batch, nil
}

func (c *Client) fetchShow(ctx context.Context, item directoryXML) (*library.Show, error) {
	var children mediaContainer
	if err := c.get(ctx, "library/metadata/"+url.PathEscape(item.RatingKey)+"/children", &children); err != nil {
		return nil, fmt.Errorf("seasons: %w", err)
	}

	seasons := make([]library.Season, 0, len(children.Directories))
	for _, s := range children.Directories {
		if s.Title == allEpisodesTitle {
			continue
		}
		if s.RatingKey == "" {
			return nil, fmt.Errorf("season %q has no rating key", s.Title)
		}
		season, err := c.fetchSeason(ctx, s)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}

	show := library.NewShow(item.RatingKey, item.Title, parseYear(item.Year), seasons)
	return &show, nil
}

func (c *Client) fetchSeason(ctx context.Context, s directoryXML) (library.Season, error) {
	var children mediaContainer
	if err := c.get(ctx, "library/metadata/"+url.PathEscape(s.RatingKey)+"/children", &children); err != nil {
		return library.Season{}, fmt.Errorf("episodes of season %s: %w", s.Index, err)
	}

	number := parseInt(s.Index)
	episodes := make([]library.Episode, 0, len(children.Videos))
	for _, v := range children.Videos {
		if v.RatingKey == "" {
			return library.Season{}, fmt.Errorf("episode %q of season %s has no rating key", v.Title, s.Index)
		}
		episodes = append(episodes, normalizeEpisode(number, v))
	}
	return library.Season{
		PlexID:       s.RatingKey,
		SeasonNumber: number,
		EpisodeCount: len(episodes),
		Episodes:     episodes,
	}, nil
}
