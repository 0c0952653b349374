package auth

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/vmunix/controlroom/internal/migrations"
	_ "modernc.org/sqlite"
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

func newTestService(t *testing.T) (*Service, *UserStore, *TokenManager) {
	t.Helper()
	users := NewUserStore(setupTestDB(t))
	tokens, err := NewTokenManager(testSecret, 0)
	require.NoError(t, err)
	svc := NewService(users, tokens, Options{BcryptCost: bcrypt.MinCost, LoginRate: rate.Inf}, nil)
	return svc, users, tokens
}

func register(t *testing.T, svc *Service, username, password string) *User {
	t.Helper()
	u, err := svc.Register(t.Context(), Registration{Username: username, Password: password, Name: "Test"})
	require.NoError(t, err)
	return u
}
