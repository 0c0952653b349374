package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/vmunix/controlroom/internal/auth"
	"github.com/vmunix/controlroom/internal/diary"
	"github.com/vmunix/controlroom/internal/finance"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/mediasync"
	"github.com/vmunix/controlroom/internal/notes"
)

// ErrNotLoggedIn is returned by calls that need a session when none is cached.
var ErrNotLoggedIn = errors.New("not logged in, run 'controlroom login'")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client wraps HTTP calls to the controlroom server.
type Client struct {
	baseURL    string
	cookie     string // "name=value" session cookie, empty when anonymous
	httpClient *http.Client
}

// NewClient creates a new API client. cookie may be empty.
func NewClient(serverURL, cookie string) *Client {
	return &Client{
		baseURL: serverURL,
		cookie:  cookie,
		httpClient: &http.Client{
			// A sync holds the request open for the whole run.
			Timeout: 10 * time.Minute,
		},
	}
}

// Cookie returns the session cookie in "name=value" form.
func (c *Client) Cookie() string { return c.cookie }

func (c *Client) do(ctx context.Context, method, path string, body, result any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
		return resp, apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

func (c *Client) authed(ctx context.Context, method, path string, body, result any) error {
	if c.cookie == "" {
		return ErrNotLoggedIn
	}
	_, err := c.do(ctx, method, path, body, result)
	return err
}

// Login authenticates and keeps the session cookie the server sets.
func (c *Client) Login(ctx context.Context, username, password string) (*auth.User, error) {
	var out struct {
		User *auth.User `json:"user"`
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	for _, ck := range resp.Cookies() {
		if ck.Value != "" {
			c.cookie = ck.Name + "=" + ck.Value
			break
		}
	}
	if c.cookie == "" {
		return nil, errors.New("login succeeded but no session cookie was set")
	}
	return out.User, nil
}

// Logout ends the server session. The local cookie is dropped either way.
func (c *Client) Logout(ctx context.Context) error {
	defer func() { c.cookie = "" }()
	if c.cookie == "" {
		return nil
	}
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	return err
}

func (c *Client) Me(ctx context.Context) (*auth.User, error) {
	var u auth.User
	if err := c.authed(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SyncResponse matches the API response of a sync run.
type SyncResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Result     *mediasync.Result `json:"result"`
	DurationMS int64             `json:"durationMs"`
}

// Sync runs a library sync of kind ("movies" or "shows") and waits for it.
func (c *Client) Sync(ctx context.Context, kind library.Kind) (*SyncResponse, error) {
	var out SyncResponse
	if err := c.authed(ctx, http.MethodPost, "/api/v1/"+string(kind)+"/sync", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMoviesResponse matches the API response for listing movies.
type ListMoviesResponse struct {
	Items  []*library.StoredMovie `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// ListShowsResponse matches the API response for listing shows.
type ListShowsResponse struct {
	Items  []*library.StoredShow `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

func pageQuery(query string, limit, offset int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) Movies(ctx context.Context, query string, limit, offset int) (*ListMoviesResponse, error) {
	var out ListMoviesResponse
	if err := c.authed(ctx, http.MethodGet, "/api/v1/movies"+pageQuery(query, limit, offset), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Shows(ctx context.Context, query string, limit, offset int) (*ListShowsResponse, error) {
	var out ListShowsResponse
	if err := c.authed(ctx, http.MethodGet, "/api/v1/shows"+pageQuery(query, limit, offset), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*library.Stats, error) {
	var out library.Stats
	if err := c.authed(ctx, http.MethodGet, "/api/v1/media/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DiaryEntries(ctx context.Context, search, category string) ([]diary.Entry, error) {
	v := url.Values{}
	if search != "" {
		v.Set("search", search)
	}
	if category != "" {
		v.Set("category", category)
	}
	path := "/api/v1/diary"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []diary.Entry
	if err := c.authed(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DiaryRequest is the body of a diary create.
type DiaryRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func (c *Client) AddDiaryEntry(ctx context.Context, req DiaryRequest) (*diary.Entry, error) {
	var out diary.Entry
	if err := c.authed(ctx, http.MethodPost, "/api/v1/diary", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDiaryEntry(ctx context.Context, id int64) error {
	return c.authed(ctx, http.MethodDelete, "/api/v1/diary/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) Notes(ctx context.Context) ([]notes.Note, error) {
	var out []notes.Note
	if err := c.authed(ctx, http.MethodGet, "/api/v1/notes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NoteRequest is the body of a note create. SessionDate is YYYY-MM-DD.
type NoteRequest struct {
	SessionDate string `json:"sessionDate"`
	Content     string `json:"content"`
}

func (c *Client) AddNote(ctx context.Context, req NoteRequest) (*notes.Note, error) {
	var out notes.Note
	if err := c.authed(ctx, http.MethodPost, "/api/v1/notes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.authed(ctx, http.MethodDelete, "/api/v1/notes/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) Transactions(ctx context.Context) ([]finance.Transaction, error) {
	var out []finance.Transaction
	if err := c.authed(ctx, http.MethodGet, "/api/v1/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionRequest is the body of a transaction create. Dates are YYYY-MM-DD.
type TransactionRequest struct {
	Amount             float64 `json:"amount"`
	Description        string  `json:"description"`
	Type               string  `json:"type"`
	Date               string  `json:"date"`
	IsRecurring        bool    `json:"isRecurring"`
	RecurrenceInterval string  `json:"recurrenceInterval,omitempty"`
	RecurrenceEndDate  string  `json:"recurrenceEndDate,omitempty"`
}

func (c *Client) AddTransaction(ctx context.Context, req TransactionRequest) (*finance.Transaction, error) {
	var out finance.Transaction
	if err := c.authed(ctx, http.MethodPost, "/api/v1/transactions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.authed(ctx, http.MethodDelete, "/api/v1/transactions/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) Summary(ctx context.Context) (*finance.Summary, error) {
	var out finance.Summary
	if err := c.authed(ctx, http.MethodGet, "/api/v1/transactions/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
