// Package finance stores a per-user ledger of credits and debits.
package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates the transaction doesn't exist or belongs to another user.
	ErrNotFound = errors.New("transaction not found")

	// ErrInvalidInput indicates a transaction that breaks a ledger rule.
	ErrInvalidInput = errors.New("invalid transaction")
)

// Type is the direction of a transaction.
type Type string

const (
	Credit Type = "CREDIT"
	Debit  Type = "DEBIT"
)

// Interval is how often a recurring transaction repeats.
type Interval string

const (
	None    Interval = "NONE"
	Daily   Interval = "DAILY"
	Weekly  Interval = "WEEKLY"
	Monthly Interval = "MONTHLY"
	Yearly  Interval = "YEARLY"
)

func (i Interval) valid() bool {
	switch i {
	case None, Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Transaction is one ledger line.
type Transaction struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"userId"`
	Amount             float64    `json:"amount"`
	Description        string     `json:"description"`
	Type               Type       `json:"type"`
	Date               time.Time  `json:"date"`
	IsRecurring        bool       `json:"isRecurring"`
	RecurrenceInterval Interval   `json:"recurrenceInterval"`
	RecurrenceEndDate  *time.Time `json:"recurrenceEndDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Input holds the writable fields of a transaction.
type Input struct {
	Amount             float64
	Description        string
	Type               Type
	Date               time.Time
	IsRecurring        bool
	RecurrenceInterval Interval
	RecurrenceEndDate  *time.Time
}

func (in Input) normalize() (Input, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Type = Type(strings.ToUpper(string(in.Type)))
	in.RecurrenceInterval = Interval(strings.ToUpper(string(in.RecurrenceInterval)))
	if in.RecurrenceInterval == "" {
		in.RecurrenceInterval = None
	}

	switch {
	case in.Amount <= 0:
		return in, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	case in.Description == "":
		return in, fmt.Errorf("%w: description is required", ErrInvalidInput)
	case in.Type != Credit && in.Type != Debit:
		return in, fmt.Errorf("%w: type must be CREDIT or DEBIT", ErrInvalidInput)
	case in.Date.IsZero():
		return in, fmt.Errorf("%w: date is required", ErrInvalidInput)
	case !in.RecurrenceInterval.valid():
		return in, fmt.Errorf("%w: unknown recurrence interval %q", ErrInvalidInput, in.RecurrenceInterval)
	case !in.IsRecurring && in.RecurrenceInterval != None:
		return in, fmt.Errorf("%w: recurrence interval requires a recurring transaction", ErrInvalidInput)
	case in.RecurrenceEndDate != nil && in.RecurrenceEndDate.Before(in.Date):
		return in, fmt.Errorf("%w: recurrence end date is before the transaction date", ErrInvalidInput)
	}

	in.Date = in.Date.UTC()
	if in.RecurrenceEndDate != nil {
		end := in.RecurrenceEndDate.UTC()
		in.RecurrenceEndDate = &end
	}
	return in, nil
}

// Summary totals a user's ledger.
type Summary struct {
	Credits float64 `json:"credits"`
	Debits  float64 `json:"debits"`
	Balance float64 `json:"balance"`
	Count   int     `json:"count"`
}

// Store persists transactions.
type Store struct {
	db *sql.DB
}

// NewStore creates a new finance store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const txColumns = `id, user_id, amount, description, type, date, is_recurring,
	recurrence_interval, recurrence_end_date, created_at, updated_at`

// List returns the user's transactions, most recent date first.
func (s *Store) List(ctx context.Context, userID int64) ([]*Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []*Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns one of the user's transactions.
func (s *Store) Get(ctx context.Context, userID, id int64) (*Transaction, error) {
	t, err := scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// Create adds a transaction for the user.
func (s *Store) Create(ctx context.Context, userID int64, in Input) (*Transaction, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, amount, description, type, date, is_recurring,
			recurrence_interval, recurrence_end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, in.Amount, in.Description, string(in.Type), in.Date, in.IsRecurring,
		string(in.RecurrenceInterval), in.RecurrenceEndDate, now, now,
	)
	if err != nil {
		return nil, mapError("insert transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get insert id: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// Update replaces the writable fields of one of the user's transactions.
func (s *Store) Update(ctx context.Context, userID, id int64, in Input) (*Transaction, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET amount = ?, description = ?, type = ?, date = ?, is_recurring = ?,
			recurrence_interval = ?, recurrence_end_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		in.Amount, in.Description, string(in.Type), in.Date, in.IsRecurring,
		string(in.RecurrenceInterval), in.RecurrenceEndDate, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, mapError("update transaction", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

// Delete removes one of the user's transactions.
func (s *Store) Delete(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary totals the user's credits and debits.
func (s *Store) Summary(ctx context.Context, userID int64) (*Summary, error) {
	sum := &Summary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'DEBIT' THEN amount END), 0),
			COUNT(*)
		FROM transactions WHERE user_id = ?`, userID,
	).Scan(&sum.Credits, &sum.Debits, &sum.Count)
	if err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}
	sum.Balance = sum.Credits - sum.Debits
	return sum, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*Transaction, error) {
	t := &Transaction{}
	var end sql.NullTime
	var typ, interval string
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Description, &typ, &t.Date, &t.IsRecurring,
		&interval, &end, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = Type(typ)
	t.RecurrenceInterval = Interval(interval)
	if end.Valid {
		e := end.Time
		t.RecurrenceEndDate = &e
	}
	return t, nil
}

func mapError(op string, err error) error {
	if strings.Contains(err.Error(), "CHECK constraint failed") {
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}
