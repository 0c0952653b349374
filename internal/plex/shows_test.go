package plex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const episodesXML = `<MediaContainer>
  <Video ratingKey="e1" title="Pilot" index="1" duration="3480000">
    <Media videoResolution="1080" videoCodec="hevc"><Part size="1000"/></Media>
  </Video>
  <Video ratingKey="e2" title="Second" index="2" duration="2880000">
    <Media videoResolution="720" videoCodec="h264"><Part size="2500"/></Media>
  </Video>
</MediaContainer>`

func showFixtures() map[string]string {
	return map[string]string{
		"/library/sections": sectionsXML,
		"/library/sections/2/all": `<MediaContainer>
  <Directory ratingKey="A" title="Alpha" year="2008" type="show"/>
  <Directory ratingKey="B" title="Bravo" type="show"/>
  <Directory ratingKey="C" title="Charlie" type="show"/>
</MediaContainer>`,
		"/library/metadata/A/children": `<MediaContainer>
  <Directory ratingKey="all-A" title="All episodes"/>
  <Directory ratingKey="A1" title="Season 1" index="1"/>
</MediaContainer>`,
		"/library/metadata/A1/children": episodesXML,
		"/library/metadata/B/children":  "500",
		"/library/metadata/C/children": `<MediaContainer>
  <Directory ratingKey="C1" title="Season 1" index="1"/>
  <Directory ratingKey="C2" title="Season 2" index="2"/>
</MediaContainer>`,
		"/library/metadata/C1/children": episodesXML,
		"/library/metadata/C2/children": `<MediaContainer>
  <Video ratingKey="e3" title="Return" index="1" duration="60000"><Media><Part size="500"/></Media></Video>
</MediaContainer>`,
	}
}

func TestFetchShows_PartialFailureIsolated(t *testing.T) {
	client := newTestClient(t, showFixtures())

	batch, err := client.FetchShows(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Shows, 2)
	assert.Equal(t, "A", batch.Shows[0].PlexID)
	assert.Equal(t, "C", batch.Shows[1].PlexID)
	assert.Equal(t, []string{"A", "B", "C"}, batch.Listed)
	require.Len(t, batch.Failed, 1)
	assert.Equal(t, "B", batch.Failed[0].ID)
	assert.Equal(t, "Bravo", batch.Failed[0].Title)
}

func TestFetchShows_SyntheticSeasonExcluded(t *testing.T) {
	client := newTestClient(t, showFixtures())

	batch, err := client.FetchShows(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, batch.Shows)

	alpha := batch.Shows[0]
	assert.Equal(t, 1, alpha.SeasonCount)
	assert.Equal(t, 2, alpha.EpisodeCount)
	require.Len(t, alpha.Seasons, 1)
	assert.Equal(t, "A1", alpha.Seasons[0].PlexID)
	assert.Equal(t, 1, alpha.Seasons[0].SeasonNumber)
	require.NotNil(t, alpha.Year)
	assert.Equal(t, 2008, *alpha.Year)

	for _, show := range batch.Shows {
		for _, season := range show.Seasons {
			assert.NotEqual(t, "all-A", season.PlexID)
		}
	}
}

func TestFetchShows_AggregatesHold(t *testing.T) {
	client := newTestClient(t, showFixtures())

	batch, err := client.FetchShows(context.Background())
	require.NoError(t, err)

	for _, show := range batch.Shows {
		episodes, minutes := 0, 0
		var size int64
		for _, season := range show.Seasons {
			assert.Equal(t, len(season.Episodes), season.EpisodeCount)
			episodes += season.EpisodeCount
			for _, ep := range season.Episodes {
				size += ep.FileSize
				minutes += ep.DurationMinutes
			}
		}
		assert.Equal(t, episodes, show.EpisodeCount, show.Title)
		assert.Equal(t, size, show.TotalFileSize, show.Title)
		assert.Equal(t, minutes, show.TotalDurationMinutes, show.Title)
		assert.Equal(t, len(show.Seasons), show.SeasonCount, show.Title)
	}

	charlie := batch.Shows[1]
	assert.Equal(t, 2, charlie.SeasonCount)
	assert.Equal(t, 3, charlie.EpisodeCount)
	assert.Equal(t, int64(4000), charlie.TotalFileSize)
	assert.Equal(t, 58+48+1, charlie.TotalDurationMinutes)
}

func TestFetchShows_EpisodeNormalization(t *testing.T) {
	client := newTestClient(t, showFixtures())

	batch, err := client.FetchShows(context.Background())
	require.NoError(t, err)

	eps := batch.Shows[0].Seasons[0].Episodes
	require.Len(t, eps, 2)
	assert.Equal(t, "e1", eps[0].PlexID)
	assert.Equal(t, 1, eps[0].SeasonNumber)
	assert.Equal(t, 1, eps[0].EpisodeNumber)
	assert.Equal(t, 58, eps[0].DurationMinutes)
	assert.Equal(t, "1080p", eps[0].Resolution)
	assert.Equal(t, "HEVC", eps[0].VideoCodec)
	assert.Equal(t, "720", eps[1].Resolution)
	assert.Equal(t, 2, eps[1].EpisodeNumber)
}

func TestFetchShows_SeasonFailureDropsWholeShow(t *testing.T) {
	fixtures := showFixtures()
	fixtures["/library/metadata/C2/children"] = "500"
	client := newTestClient(t, fixtures)

	batch, err := client.FetchShows(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Shows, 1)
	assert.Equal(t, "A", batch.Shows[0].PlexID)
	require.Len(t, batch.Failed, 2)
	assert.Equal(t, "B", batch.Failed[0].ID)
	assert.Equal(t, "C", batch.Failed[1].ID)
}

func TestFetchShows_EpisodeWithoutRatingKeyDropsShow(t *testing.T) {
	fixtures := showFixtures()
	fixtures["/library/metadata/C2/children"] = `<MediaContainer>
  <Video title="Untracked" index="1" duration="60000"><Media><Part size="500"/></Media></Video>
</MediaContainer>`
	client := newTestClient(t, fixtures)

	batch, err := client.FetchShows(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Shows, 1)
	assert.Equal(t, "A", batch.Shows[0].PlexID)
	require.Len(t, batch.Failed, 2)
	assert.Equal(t, "C", batch.Failed[1].ID)
	assert.Contains(t, batch.Failed[1].Err.Error(), "no rating key")
	for _, season := range batch.Shows[0].Seasons {
		for _, ep := range season.Episodes {
			assert.NotEmpty(t, ep.PlexID)
		}
	}
}

func TestFetchShows_SectionNotFound(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/library/sections": `<MediaContainer><Directory key="1" type="movie" title="Movies"/></MediaContainer>`,
	})

	_, err := client.FetchShows(context.Background())
	assert.ErrorIs(t, err, ErrSectionNotFound)
}
