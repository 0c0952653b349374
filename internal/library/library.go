// Package library stores the local mirror of the Plex catalog (movies and shows).
package library

import (
	"time"
)

// Kind names a mirrored collection. Each kind is reconciled independently.
type Kind string

const (
	KindMovies Kind = "movies"
	KindShows  Kind = "shows"
)

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	return k == KindMovies || k == KindShows
}

// AudioStream is one audio track of a movie kept after language filtering.
type AudioStream struct {
	Language string `json:"language"`
	Codec    string `json:"codec"`
	Channels int    `json:"channels"`
}

// Movie is the normalized record for a single Plex movie.
type Movie struct {
	PlexID            string        `json:"plexId"`
	Title             string        `json:"title"`
	TitleWithYear     string        `json:"titleWithYear"`
	Year              *int          `json:"year"`
	DurationMinutes   int           `json:"duration"`
	DurationFormatted string        `json:"durationFormatted"`
	FileSize          int64         `json:"fileSize"`
	Resolution        string        `json:"resolution"`
	Dimensions        string        `json:"dimensions"`
	VideoCodec        string        `json:"videoCodec"`
	AudioStreams      []AudioStream `json:"audioStreams"`
}

// ExternalID returns the Plex rating key.
func (m Movie) ExternalID() string { return m.PlexID }

// DisplayTitle returns the title used for sorting and search.
func (m Movie) DisplayTitle() string { return m.Title }

// Episode is a single episode inside a Season.
type Episode struct {
	PlexID          string `json:"plexId"`
	Title           string `json:"title"`
	SeasonNumber    int    `json:"seasonNumber"`
	EpisodeNumber   int    `json:"episodeNumber"`
	DurationMinutes int    `json:"duration"`
	FileSize        int64  `json:"fileSize"`
	Resolution      string `json:"resolution"`
	VideoCodec      string `json:"videoCodec"`
}

// Season groups the episodes of one season. EpisodeCount always equals len(Episodes).
type Season struct {
	PlexID       string    `json:"plexId"`
	SeasonNumber int       `json:"seasonNumber"`
	EpisodeCount int       `json:"episodeCount"`
	Episodes     []Episode `json:"episodes"`
}

// Show is the normalized record for a Plex show.
// The counts and totals are computed from Seasons, never read from the server.
type Show struct {
	PlexID               string   `json:"plexId"`
	Title                string   `json:"title"`
	Year                 *int     `json:"year"`
	SeasonCount          int      `json:"seasonCount"`
	EpisodeCount         int      `json:"episodeCount"`
	TotalDurationMinutes int      `json:"totalDuration"`
	TotalFileSize        int64    `json:"totalFileSize"`
	Seasons              []Season `json:"seasons"`
}

// ExternalID returns the Plex rating key.
func (s Show) ExternalID() string { return s.PlexID }

// DisplayTitle returns the title used for sorting and search.
func (s Show) DisplayTitle() string { return s.Title }

// NewShow builds a Show from its seasons and fills in the aggregates.
func NewShow(plexID, title string, year *int, seasons []Season) Show {
	show := Show{
		PlexID:  plexID,
		Title:   title,
		Year:    year,
		Seasons: seasons,
	}
	if show.Seasons == nil {
		show.Seasons = []Season{}
	}
	for i := range show.Seasons {
		season := &show.Seasons[i]
		if season.Episodes == nil {
			season.Episodes = []Episode{}
		}
		season.EpisodeCount = len(season.Episodes)
		show.EpisodeCount += season.EpisodeCount
		for _, ep := range season.Episodes {
			show.TotalDurationMinutes += ep.DurationMinutes
			show.TotalFileSize += ep.FileSize
		}
	}
	show.SeasonCount = len(show.Seasons)
	return show
}

// StoredMovie is a Movie as persisted, with the time its content last changed.
type StoredMovie struct {
	Movie
	LastUpdated time.Time `json:"lastUpdated"`
}

// StoredShow is a Show as persisted, with the time its content last changed.
type StoredShow struct {
	Show
	LastUpdated time.Time `json:"lastUpdated"`
}

// Outcome describes what an upsert did to the stored row.
type Outcome int

const (
	Unchanged Outcome = iota
	Inserted
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Filter narrows List results.
type Filter struct {
	Query  string // fuzzy title match, empty = all
	Limit  int    // 0 = no limit
	Offset int
}

// Stats summarizes the mirrored catalog.
type Stats struct {
	MovieCount   int   `json:"movieCount"`
	MovieBytes   int64 `json:"movieBytes"`
	ShowCount    int   `json:"showCount"`
	SeasonCount  int   `json:"seasonCount"`
	EpisodeCount int   `json:"episodeCount"`
	ShowBytes    int64 `json:"showBytes"`
}
