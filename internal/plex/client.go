// Package plex fetches and normalizes the catalog of a Plex Media Server.
package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrNotConfigured is returned by NewClient when the server URL or token is missing.
var ErrNotConfigured = errors.New("plex url and token must be set")

const (
	defaultClientIdentifier  = "controlroom"
	defaultRequestTimeout    = 10 * time.Second
	defaultDetailConcurrency = 8

	// errorBodyLimit caps how much of a failed response body is quoted in errors.
	errorBodyLimit = 256
)

var defaultLanguages = []string{"eng", "ita"}

// Options configures a Client.
type Options struct {
	URL               string
	Token             string
	ClientIdentifier  string
	Languages         []string // audio language codes to keep
	RequestTimeout    time.Duration
	DetailConcurrency int
}

// Client interacts with the Plex Media Server API.
type Client struct {
	baseURL     string
	token       string
	clientID    string
	languages   map[string]bool
	timeout     time.Duration
	concurrency int
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[[]byte]
	log         *slog.Logger
}

// NewClient creates a new Plex client.
func NewClient(opts Options, log *slog.Logger) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" || strings.TrimSpace(opts.Token) == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "plex")

	c := &Client{
		baseURL:     strings.TrimSuffix(opts.URL, "/"),
		token:       opts.Token,
		clientID:    opts.ClientIdentifier,
		languages:   make(map[string]bool),
		timeout:     opts.RequestTimeout,
		concurrency: opts.DetailConcurrency,
		httpClient:  &http.Client{},
		log:         log,
	}
	if c.clientID == "" {
		c.clientID = defaultClientIdentifier
	}
	if c.timeout <= 0 {
		c.timeout = defaultRequestTimeout
	}
	if c.concurrency <= 0 {
		c.concurrency = defaultDetailConcurrency
	}
	langs := opts.Languages
	if len(langs) == 0 {
		langs = defaultLanguages
	}
	for _, l := range langs {
		c.languages[strings.ToLower(l)] = true
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "plex",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= breakerFailureRatio
		},
		IsSuccessful: serverHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

const (
	breakerMinRequests  = 10
	breakerFailureRatio = 0.6
)

// statusError is a non-200 response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

// serverHealthy reports whether err leaves the server's health untouched.
// Client errors (4xx) concern one item and caller cancellation concerns none.
func serverHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *statusError
	return errors.As(err, &se) && se.code >= 400 && se.code < 500
}

// RequestError describes a failed request to the media server.
type RequestError struct {
	URL        string // token redacted
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("plex request %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// get fetches endpoint (relative to the server root) and decodes the XML body into v.
// Each call is bounded by the client's request timeout.
func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	reqURL := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	shown := redactURL(reqURL)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	statusCode := 0
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("X-Plex-Token", c.token)
		req.Header.Set("Accept", "application/xml")
		req.Header.Set("X-Plex-Client-Identifier", c.clientID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		statusCode = resp.StatusCode

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
			return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return &RequestError{URL: shown, StatusCode: statusCode, Err: err}
	}

	if err := xml.Unmarshal(body, v); err != nil {
		return &RequestError{URL: shown, StatusCode: statusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	c.log.Debug("plex request", "url", shown, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// redactURL hides any token carried in the query string.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("X-Plex-Token") {
		q.Set("X-Plex-Token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// ItemError records a listed item that could not be fetched or normalized.
type ItemError struct {
	ID    string
	Title string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Title, e.ID, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }
