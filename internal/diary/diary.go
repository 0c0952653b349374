// Package diary stores per-user journal entries.
package diary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrNotFound indicates the entry doesn't exist or belongs to another user.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidInput indicates a missing title or content.
	ErrInvalidInput = errors.New("title and content are required")
)

// DefaultCategory is assigned when an entry has no category.
const DefaultCategory = "general"

// Entry is one diary entry.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input holds the writable fields of an entry.
type Input struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// normalize trims fields, applies the default category and drops blank tags.
func (in Input) normalize() (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return in, ErrInvalidInput
	}
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	in.Tags = tags
	return in, nil
}

// Filter narrows List. Search matches title, content or a tag, case-insensitively.
type Filter struct {
	Search   string
	Category string
}

// Store persists diary entries.
type Store struct {
	db *sql.DB
}

// NewStore creates a new diary store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const entryColumns = `id, user_id, title, content, category, tags, created_at, updated_at`

// List returns the user's entries, newest first.
func (s *Store) List(ctx context.Context, userID int64, f Filter) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM diary_entries WHERE user_id = ?`
	args := []any{userID}

	if q := strings.TrimSpace(f.Search); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		query += ` AND (title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM json_each(diary_entries.tags) WHERE json_each.value LIKE ? ESCAPE '\'))`
		args = append(args, pattern, pattern, pattern)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list diary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []*Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one of the user's entries.
func (s *Store) Get(ctx context.Context, userID, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM diary_entries WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// Create adds an entry for the user.
func (s *Store) Create(ctx context.Context, userID int64, in Input) (*Entry, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO diary_entries (user_id, title, content, category, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, in.Title, in.Content, in.Category, string(tags), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert diary entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get insert id: %w", err)
	}
	return &Entry{
		ID: id, UserID: userID,
		Title: in.Title, Content: in.Content, Category: in.Category, Tags: in.Tags,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// Update replaces the writable fields of one of the user's entries.
func (s *Store) Update(ctx context.Context, userID, id int64, in Input) (*Entry, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE diary_entries SET title = ?, content = ?, category = ?, tags = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		in.Title, in.Content, in.Category, string(tags), time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update diary entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

// Delete removes one of the user's entries.
func (s *Store) Delete(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM diary_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	e := &Entry{}
	var tags string
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Category, &tags, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of entry %d: %w", e.ID, err)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
