package plex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(Options{URL: "http://localhost:32400"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(Options{Token: "abc"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Options{URL: "http://plex:32400/", Token: "abc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://plex:32400", c.baseURL)
	assert.Equal(t, "controlroom", c.clientID)
	assert.Equal(t, defaultRequestTimeout, c.timeout)
	assert.Equal(t, defaultDetailConcurrency, c.concurrency)
	assert.True(t, c.languages["eng"])
	assert.True(t, c.languages["ita"])
}

func TestClient_SendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, testToken, r.Header.Get("X-Plex-Token"))
		assert.Equal(t, "application/xml", r.Header.Get("Accept"))
		assert.Equal(t, "my-dashboard", r.Header.Get("X-Plex-Client-Identifier"))
		_, _ = w.Write([]byte(`<MediaContainer friendlyName="velcro" version="1.42.2.10156"/>`))
	}))
	defer server.Close()

	client, err := NewClient(Options{URL: server.URL, Token: testToken, ClientIdentifier: "my-dashboard"}, nil)
	require.NoError(t, err)

	identity, err := client.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "velcro", identity.Name)
	assert.Equal(t, "1.42.2.10156", identity.Version)
}

func TestClient_ErrorIncludesURL(t *testing.T) {
	client := newTestClient(t, map[string]string{"/library/sections": "500"})

	_, err := client.Sections(context.Background())
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, strings.HasSuffix(reqErr.URL, "/library/sections"), "got %s", reqErr.URL)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "/library/sections")
	assert.NotContains(t, err.Error(), testToken)
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, map[string]string{"/library/sections": ""})

	_, err := client.Sections(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "/library/sections")
}

func TestClient_ConnectionError(t *testing.T) {
	client, err := NewClient(Options{URL: "http://localhost:1", Token: "token"}, nil)
	require.NoError(t, err)
	_, err = client.Identity(context.Background())
	assert.Error(t, err, "expected connection error")
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(Options{URL: server.URL, Token: testToken}, nil)
	require.NoError(t, err)

	for i := 0; i < breakerMinRequests; i++ {
		_, err := client.Sections(context.Background())
		require.Error(t, err)
	}
	_, err = client.Sections(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/library/sections")
	assert.Equal(t, int32(breakerMinRequests), hits.Load(), "open breaker must not reach the server")
}

func TestClient_BreakerIgnoresItemNotFound(t *testing.T) {
	listing := strings.Builder{}
	listing.WriteString("<MediaContainer>")
	bodies := map[string]string{"/library/sections": sectionsXML}
	for i := 1; i <= 20; i++ {
		key := strconv.Itoa(i)
		listing.WriteString(`<Video ratingKey="` + key + `" title="M` + key + `"/>`)
		if i > 5 { // 1-5 are missing and answer 404
			bodies["/library/metadata/"+key] = `<MediaContainer><Video ratingKey="` + key + `" title="M` + key + `"/></MediaContainer>`
		}
	}
	listing.WriteString("</MediaContainer>")
	bodies["/library/sections/1/all"] = listing.String()

	server := httptest.NewServer(&fakePlex{t: t, bodies: bodies})
	defer server.Close()
	client, err := NewClient(Options{URL: server.URL, Token: testToken, DetailConcurrency: 1}, nil)
	require.NoError(t, err)

	batch, err := client.FetchMovies(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, batch.Movies, 15)
	require.Len(t, batch.Failed, 5)
	for _, f := range batch.Failed {
		var reqErr *RequestError
		require.ErrorAs(t, f, &reqErr)
		assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	}

	batch, err = client.FetchMovies(context.Background(), "")
	require.NoError(t, err, "breaker must stay closed")
	assert.Len(t, batch.Movies, 15)
}

func TestClient_BreakerNeedsFailureRatio(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// every other request fails: 50% stays below the trip ratio
		if hits.Add(1)%2 == 0 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sectionsXML))
	}))
	defer server.Close()

	client, err := NewClient(Options{URL: server.URL, Token: testToken}, nil)
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		_, _ = client.Sections(context.Background())
	}
	assert.Equal(t, int32(30), hits.Load())
}

func TestServerHealthy(t *testing.T) {
	assert.True(t, serverHealthy(nil))
	assert.True(t, serverHealthy(context.Canceled))
	assert.True(t, serverHealthy(&statusError{code: http.StatusNotFound}))
	assert.False(t, serverHealthy(&statusError{code: http.StatusInternalServerError}))
	assert.False(t, serverHealthy(context.DeadlineExceeded))
	assert.False(t, serverHealthy(errors.New("connection refused")))
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "http://plex/library?X-Plex-Token=REDACTED", redactURL("http://plex/library?X-Plex-Token=secret"))
	assert.Equal(t, "http://plex/library/sections", redactURL("http://plex/library/sections"))
}

func TestSectionKey(t *testing.T) {
	client := newTestClient(t, map[string]string{"/library/sections": sectionsXML})

	key, err := client.SectionKey(context.Background(), MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, "1", key)

	key, err = client.SectionKey(context.Background(), MediaTypeShow)
	require.NoError(t, err)
	assert.Equal(t, "2", key)
}

func TestSectionKey_NotFound(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/library/sections": `<MediaContainer><Directory key="7" title="Music" type="artist"/></MediaContainer>`,
	})

	_, err := client.SectionKey(context.Background(), MediaTypeShow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSectionNotFound)

	var notFound *SectionNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "show", notFound.MediaType)
}
