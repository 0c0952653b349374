package v1

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"github.com/vmunix/controlroom/internal/auth"
	"github.com/vmunix/controlroom/internal/diary"
	"github.com/vmunix/controlroom/internal/events"
	"github.com/vmunix/controlroom/internal/finance"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/migrations"
	"github.com/vmunix/controlroom/internal/notes"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")
	return db
}

type testEnv struct {
	db      *sql.DB
	deps    ServerDeps
	tokens  *auth.TokenManager
	handler http.Handler
}

// newTestEnv builds a server over in-memory storage. modify may set optional deps.
func newTestEnv(t *testing.T, modify func(*ServerDeps)) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	tokens, err := auth.NewTokenManager(testSecret, 0)
	require.NoError(t, err)

	deps := ServerDeps{
		Library: library.NewStore(db),
		Accounts: auth.NewService(auth.NewUserStore(db), tokens,
			auth.Options{BcryptCost: bcrypt.MinCost, LoginRate: rate.Inf}, nil),
		Auth:     auth.NewAuthenticator(tokens, "token", false, nil),
		Diary:    diary.NewStore(db),
		Notes:    notes.NewStore(db),
		Finance:  finance.NewStore(db),
		EventLog: events.NewEventLog(db),
	}
	if modify != nil {
		modify(&deps)
	}
	srv, err := New(deps, nil)
	require.NoError(t, err)
	return &testEnv{db: db, deps: deps, tokens: tokens, handler: srv.Handler()}
}

// user registers an account and returns its session cookie.
func (e *testEnv) user(t *testing.T, username string) (int64, *http.Cookie) {
	t.Helper()
	u, err := e.deps.Accounts.Register(t.Context(), auth.Registration{Username: username, Password: "secret", Name: username})
	require.NoError(t, err)
	token, err := e.tokens.Issue(u.ID)
	require.NoError(t, err)
	return u.ID, &http.Cookie{Name: "token", Value: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
