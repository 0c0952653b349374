// Package notes stores therapy session notes.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates the note doesn't exist or belongs to another user.
	ErrNotFound = errors.New("note not found")

	// ErrInvalidInput indicates a missing session date or content.
	ErrInvalidInput = errors.New("session date and content are required")
)

// Note is the record of one session.
type Note struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	SessionDate time.Time `json:"sessionDate"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store persists notes.
type Store struct {
	db *sql.DB
}

// NewStore creates a new notes store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func validate(sessionDate time.Time, content string) error {
	if sessionDate.IsZero() || strings.TrimSpace(content) == "" {
		return ErrInvalidInput
	}
	return nil
}

// List returns the user's notes, most recent session first.
func (s *Store) List(ctx context.Context, userID int64) ([]*Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_date, content, created_at, updated_at
		FROM notes WHERE user_id = ?
		ORDER BY session_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	notes := []*Note{}
	for rows.Next() {
		n := &Note{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.SessionDate, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Get returns one of the user's notes.
func (s *Store) Get(ctx context.Context, userID, id int64) (*Note, error) {
	n := &Note{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, session_date, content, created_at, updated_at
		FROM notes WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&n.ID, &n.UserID, &n.SessionDate, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// Create adds a note for the user.
func (s *Store) Create(ctx context.Context, userID int64, sessionDate time.Time, content string) (*Note, error) {
	if err := validate(sessionDate, content); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sessionDate = sessionDate.UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (user_id, session_date, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`, userID, sessionDate, content, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get insert id: %w", err)
	}
	return &Note{ID: id, UserID: userID, SessionDate: sessionDate, Content: content, CreatedAt: now, UpdatedAt: now}, nil
}

// Update replaces the session date and content, bumping UpdatedAt.
func (s *Store) Update(ctx context.Context, userID, id int64, sessionDate time.Time, content string) (*Note, error) {
	if err := validate(sessionDate, content); err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET session_date = ?, content = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`, sessionDate.UTC(), content, time.Now().UTC(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

// Delete removes one of the user's notes.
func (s *Store) Delete(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
