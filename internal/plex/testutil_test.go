package plex

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// fakePlex serves canned XML bodies keyed by request path.
// A path mapped to "" blocks until the client gives up; "500" answers with an error.
type fakePlex struct {
	t      *testing.T
	bodies map[string]string
}

func (f *fakePlex) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, testToken, r.Header.Get("X-Plex-Token"))
	assert.Equal(f.t, "application/xml", r.Header.Get("Accept"))

	body, ok := f.bodies[r.URL.Path]
	switch {
	case !ok:
		http.NotFound(w, r)
	case body == "":
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	case body == "500":
		http.Error(w, "boom", http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, bodies map[string]string) *Client {
	t.Helper()
	server := httptest.NewServer(&fakePlex{t: t, bodies: bodies})
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		URL:               server.URL,
		Token:             testToken,
		RequestTimeout:    200 * time.Millisecond,
		DetailConcurrency: 4,
	}, nil)
	require.NoError(t, err)
	return client
}

const sectionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="3">
  <Directory key="7" title="Music" type="artist"/>
  <Directory key="1" title="Movies" type="movie"/>
  <Directory key="2" title="TV Shows" type="show"/>
</MediaContainer>`
