package main

import (
	"bytes"
	"database/sql"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/controlroom/internal/api/v1"
	"github.com/vmunix/controlroom/internal/auth"
	"github.com/vmunix/controlroom/internal/diary"
	"github.com/vmunix/controlroom/internal/finance"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/migrations"
	"github.com/vmunix/controlroom/internal/notes"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// testEnv is a real API server over in-memory storage plus a session file.
type testEnv struct {
	server   *httptest.Server
	library  *library.Store
	accounts *auth.Service
	session  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	tokens, err := auth.NewTokenManager(testSecret, 0)
	require.NoError(t, err)
	store := library.NewStore(db)
	accounts := auth.NewService(auth.NewUserStore(db), tokens,
		auth.Options{BcryptCost: bcrypt.MinCost, LoginRate: rate.Inf}, nil)

	api, err := v1.New(v1.ServerDeps{
		Library:  store,
		Accounts: accounts,
		Auth:     auth.NewAuthenticator(tokens, "token", false, nil),
		Diary:    diary.NewStore(db),
		Notes:    notes.NewStore(db),
		Finance:  finance.NewStore(db),
	}, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		server:   srv,
		library:  store,
		accounts: accounts,
		session:  filepath.Join(t.TempDir(), "controlroom", "session"),
	}
}

// run executes the CLI against the test server and returns combined output.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", e.server.URL, "--session", e.session}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// loggedIn registers username and logs the CLI in as that user.
func (e *testEnv) loggedIn(t *testing.T, username string) {
	t.Helper()
	_, err := e.accounts.Register(t.Context(), auth.Registration{Username: username, Password: "secret", Name: "Test"})
	require.NoError(t, err)
	_, err = e.run(t, "", "login", "-u", username, "-p", "secret")
	require.NoError(t, err)
}
