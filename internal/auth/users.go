// internal/auth/users.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User is a dashboard account. PasswordHash never leaves the server.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Surname      string     `json:"surname"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Profile holds the user-editable fields.
type Profile struct {
	Name     string
	Surname  string
	Birthday *time.Time
}

// UserStore persists users.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, password_hash, name, surname, birthday, created_at`

// Create inserts u and sets its ID and CreatedAt.
func (s *UserStore) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, name, surname, birthday, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Name, u.Surname, u.Birthday, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	return nil
}

// Get returns the user with id.
func (s *UserStore) Get(ctx context.Context, id int64) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetByUsername returns the user with username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (s *UserStore) scanOne(row *sql.Row) (*User, error) {
	u := &User{}
	var birthday sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Surname, &birthday, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if birthday.Valid {
		b := birthday.Time
		u.Birthday = &b
	}
	return u, nil
}

// UpdateProfile replaces the editable profile fields.
func (s *UserStore) UpdateProfile(ctx context.Context, id int64, p Profile) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, surname = ?, birthday = ? WHERE id = ?`,
		p.Name, p.Surname, p.Birthday, id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

// SetPassword replaces the stored password hash.
func (s *UserStore) SetPassword(ctx context.Context, id int64, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res)
}

// Delete removes the user. Owned diary entries, notes and transactions cascade.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
