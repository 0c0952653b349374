package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Record is a normalized document that can be mirrored into a collection.
type Record interface {
	ExternalID() string
	DisplayTitle() string
}

func tableFor(kind Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return string(kind), nil
}

// upsertDoc replaces the stored document for r. A document identical to the
// stored one leaves the row untouched, so last_updated only moves on change.
func upsertDoc(ctx context.Context, q querier, kind Kind, r Record) (Outcome, error) {
	table, err := tableFor(kind)
	if err != nil {
		return Unchanged, err
	}
	doc, err := json.Marshal(r)
	if err != nil {
		return Unchanged, fmt.Errorf("marshal %s %s: %w", kind, r.ExternalID(), err)
	}

	var existing string
	err = q.QueryRowContext(ctx, "SELECT doc FROM "+table+" WHERE plex_id = ?", r.ExternalID()).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = q.ExecContext(ctx,
			"INSERT INTO "+table+" (plex_id, title, doc, last_updated) VALUES (?, ?, ?, ?)",
			r.ExternalID(), r.DisplayTitle(), string(doc), time.Now().UTC(),
		)
		if err != nil {
			return Unchanged, fmt.Errorf("insert %s %q: %w", kind, r.ExternalID(), mapSQLiteError(err))
		}
		return Inserted, nil
	case err != nil:
		return Unchanged, fmt.Errorf("load %s %q: %w", kind, r.ExternalID(), mapSQLiteError(err))
	case existing == string(doc):
		return Unchanged, nil
	}

	_, err = q.ExecContext(ctx,
		"UPDATE "+table+" SET title = ?, doc = ?, last_updated = ? WHERE plex_id = ?",
		r.DisplayTitle(), string(doc), time.Now().UTC(), r.ExternalID(),
	)
	if err != nil {
		return Unchanged, fmt.Errorf("update %s %q: %w", kind, r.ExternalID(), mapSQLiteError(err))
	}
	return Updated, nil
}

// Upsert inserts or fully replaces the stored document for r.
func (s *Store) Upsert(ctx context.Context, kind Kind, r Record) (Outcome, error) {
	return upsertDoc(ctx, s.db, kind, r)
}

// Upsert inserts or fully replaces the stored document for r within a transaction.
func (t *Tx) Upsert(ctx context.Context, kind Kind, r Record) (Outcome, error) {
	return upsertDoc(ctx, t.tx, kind, r)
}

func listIDs(ctx context.Context, q querier, kind Kind) ([]string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, "SELECT plex_id FROM "+table+" ORDER BY plex_id")
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w", kind, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", kind, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IDs returns every stored plex id of the collection, sorted.
func (s *Store) IDs(ctx context.Context, kind Kind) ([]string, error) {
	return listIDs(ctx, s.db, kind)
}

// IDs returns every stored plex id of the collection within a transaction.
func (t *Tx) IDs(ctx context.Context, kind Kind) ([]string, error) {
	return listIDs(ctx, t.tx, kind)
}

func deleteDoc(ctx context.Context, q querier, kind Kind, plexID string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	result, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE plex_id = ?", plexID)
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, plexID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, plexID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s %q: %w", kind, plexID, ErrNotFound)
	}
	return nil
}

// Delete removes a stored document. Returns ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, kind Kind, plexID string) error {
	return deleteDoc(ctx, s.db, kind, plexID)
}

// Delete removes a stored document within a transaction.
func (t *Tx) Delete(ctx context.Context, kind Kind, plexID string) error {
	return deleteDoc(ctx, t.tx, kind, plexID)
}

type rawDoc struct {
	doc         string
	lastUpdated time.Time
}

func getDoc(ctx context.Context, q querier, kind Kind, plexID string) (*rawDoc, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	d := &rawDoc{}
	err = q.QueryRowContext(ctx, "SELECT doc, last_updated FROM "+table+" WHERE plex_id = ?", plexID).
		Scan(&d.doc, &d.lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", kind, plexID, mapSQLiteError(err))
	}
	return d, nil
}

// listDocs returns documents ordered by title, case-insensitively.
// Rows whose title does not match the query are skipped before decoding.
func listDocs(ctx context.Context, q querier, kind Kind, query string) ([]rawDoc, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx,
		"SELECT title, doc, last_updated FROM "+table+" ORDER BY title COLLATE NOCASE, plex_id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var docs []rawDoc
	for rows.Next() {
		var title string
		var d rawDoc
		if err := rows.Scan(&title, &d.doc, &d.lastUpdated); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		if query != "" && !MatchTitle(title, query) {
			continue
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// page applies offset and limit to n items and returns the bounds.
func page(n int, f Filter) (int, int) {
	start := min(max(f.Offset, 0), n)
	end := n
	if f.Limit > 0 && start+f.Limit < n {
		end = start + f.Limit
	}
	return start, end
}
