package plex

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vmunix/controlroom/internal/library"
)

const (
	unknown = "Unknown"

	// streamTypeAudio is the Plex streamType of audio tracks.
	streamTypeAudio = "2"

	defaultChannels = 2
)

// normalizeMovie builds a Movie from a metadata Video node.
func (c *Client) normalizeMovie(plexID string, v videoXML) library.Movie {
	media, part := v.firstMedia()
	year := parseYear(v.Year)
	minutes := durationMinutes(v.Duration)

	m := library.Movie{
		PlexID:            plexID,
		Title:             v.Title,
		TitleWithYear:     v.Title,
		Year:              year,
		DurationMinutes:   minutes,
		DurationFormatted: FormatDuration(minutes),
		FileSize:          partSize(part),
		Resolution:        unknown,
		Dimensions:        unknown,
		VideoCodec:        unknown,
		AudioStreams:      c.audioStreams(part),
	}
	if year != nil {
		m.TitleWithYear = fmt.Sprintf("%s (%d)", v.Title, *year)
	}
	if media != nil {
		m.Resolution = NormalizeResolution(media.VideoResolution)
		m.Dimensions = dimensions(media)
		m.VideoCodec = normalizeCodec(media.VideoCodec)
	}
	return m
}

// normalizeEpisode builds an Episode from a season child Video node.
func normalizeEpisode(seasonNumber int, v videoXML) library.Episode {
	media, part := v.firstMedia()
	ep := library.Episode{
		PlexID:          v.RatingKey,
		Title:           v.Title,
		SeasonNumber:    seasonNumber,
		EpisodeNumber:   parseInt(v.Index),
		DurationMinutes: durationMinutes(v.Duration),
		FileSize:        partSize(part),
		Resolution:      unknown,
		VideoCodec:      unknown,
	}
	if media != nil {
		ep.Resolution = NormalizeResolution(media.VideoResolution)
		ep.VideoCodec = normalizeCodec(media.VideoCodec)
	}
	return ep
}

// audioStreams keeps the audio tracks whose language is in the allowed set.
func (c *Client) audioStreams(part *partXML) []library.AudioStream {
	streams := []library.AudioStream{}
	if part == nil {
		return streams
	}
	for _, s := range part.Streams {
		if s.StreamType != streamTypeAudio || !c.languages[strings.ToLower(s.LanguageCode)] {
			continue
		}
		as := library.AudioStream{
			Language: s.Language,
			Codec:    strings.ToUpper(s.Codec),
			Channels: parseInt(s.Channels),
		}
		if as.Language == "" {
			as.Language = unknown
		}
		if as.Codec == "" {
			as.Codec = strings.ToUpper(unknown)
		}
		if as.Channels <= 0 {
			as.Channels = defaultChannels
		}
		streams = append(streams, as)
	}
	return streams
}

// NormalizeResolution maps Plex videoResolution values for display:
// "1080" becomes "1080p", anything else is upper-cased ("4k" -> "4K", "sd" -> "SD").
func NormalizeResolution(res string) string {
	switch res = strings.TrimSpace(res); res {
	case "":
		return unknown
	case "1080":
		return "1080p"
	default:
		return strings.ToUpper(res)
	}
}

func normalizeCodec(codec string) string {
	if codec = strings.TrimSpace(codec); codec == "" {
		return unknown
	}
	return strings.ToUpper(codec)
}

func dimensions(m *mediaXML) string {
	w, h := m.Width, m.Height
	if w == "" {
		w = "?"
	}
	if h == "" {
		h = "?"
	}
	return w + "x" + h
}

// FormatDuration renders minutes as "45m", "2h" or "2h 16m".
func FormatDuration(minutes int) string {
	hours, rest := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
}

// durationMinutes converts a millisecond attribute to whole minutes, rounding half up.
func durationMinutes(ms string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(ms), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / 60000))
}

func partSize(p *partXML) int64 {
	if p == nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(p.Size), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseYear returns nil for a missing or non-positive year.
func parseYear(s string) *int {
	y := parseInt(s)
	if y <= 0 {
		return nil
	}
	return &y
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
