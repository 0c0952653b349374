package finance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/controlroom/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) (*sql.DB, int64, int64) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")

	var ids []int64
	for _, name := range []string{"ada", "bob"} {
		res, err := db.Exec(`INSERT INTO users (username, password_hash, name, created_at) VALUES (?, 'x', ?, CURRENT_TIMESTAMP)`, name, name)
		require.NoError(t, err)
		id, _ := res.LastInsertId()
		ids = append(ids, id)
	}
	return db, ids[0], ids[1]
}

func date(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestStore_CreateDefaults(t *testing.T) {
	db, ada, _ := setupTestDB(t)
	store := NewStore(db)

	tx, err := store.Create(context.Background(), ada, Input{
		Amount:      12.5,
		Description: " Coffee ",
		Type:        "debit",
		Date:        date(time.March, 1),
	})
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)
	assert.Equal(t, "Coffee", tx.Description)
	assert.Equal(t, Debit, tx.Type)
	assert.Equal(t, None, tx.RecurrenceInterval)
	assert.False(t, tx.IsRecurring)
	assert.Nil(t, tx.RecurrenceEndDate)
	assert.True(t, tx.Date.Equal(date(time.March, 1)))
}

func TestStore_CreateRecurring(t *testing.T) {
	db, ada, _ := setupTestDB(t)
	store := NewStore(db)

	tx, err := store.Create(context.Background(), ada, Input{
		Amount:             1200,
		Description:        "Salary",
		Type:               Credit,
		Date:               date(time.January, 27),
		IsRecurring:        true,
		RecurrenceInterval: Monthly,
		RecurrenceEndDate:  ptr(date(time.December, 27)),
	})
	require.NoError(t, err)
	assert.True(t, tx.IsRecurring)
	assert.Equal(t, Monthly, tx.RecurrenceInterval)
	require.NotNil(t, tx.RecurrenceEndDate)
	assert.True(t, tx.RecurrenceEndDate.Equal(date(time.December, 27)))
}

func TestStore_Validation(t *testing.T) {
	db, ada, _ := setupTestDB(t)
	store := NewStore(db)

	valid := Input{Amount: 10, Description: "x", Type: Credit, Date: date(time.May, 5)}
	tests := []struct {
		name   string
		modify func(*Input)
	}{
		{"zero amount", func(in *Input) { in.Amount = 0 }},
		{"negative amount", func(in *Input) { in.Amount = -3 }},
		{"missing description", func(in *Input) { in.Description = "  " }},
		{"bad type", func(in *Input) { in.Type = "REFUND" }},
		{"missing date", func(in *Input) { in.Date = time.Time{} }},
		{"bad interval", func(in *Input) { in.IsRecurring = true; in.RecurrenceInterval = "HOURLY" }},
		{"interval without recurring", func(in *Input) { in.RecurrenceInterval = Weekly }},
		{"end before date", func(in *Input) {
			in.IsRecurring = true
			in.RecurrenceInterval = Weekly
			in.RecurrenceEndDate = ptr(date(time.May, 1))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)
			_, err := store.Create(context.Background(), ada, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestStore_ListAndSummary(t *testing.T) {
	db, ada, bob := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	for _, in := range []Input{
		{Amount: 1000, Description: "Salary", Type: Credit, Date: date(time.March, 1)},
		{Amount: 250.25, Description: "Rent", Type: Debit, Date: date(time.March, 3)},
		{Amount: 49.75, Description: "Groceries", Type: Debit, Date: date(time.February, 27)},
	} {
		_, err := store.Create(ctx, ada, in)
		require.NoError(t, err)
	}
	_, err := store.Create(ctx, bob, Input{Amount: 5, Description: "Other", Type: Credit, Date: date(time.March, 9)})
	require.NoError(t, err)

	list, err := store.List(ctx, ada)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Rent", list[0].Description)
	assert.Equal(t, "Salary", list[1].Description)
	assert.Equal(t, "Groceries", list[2].Description)

	sum, err := store.Summary(ctx, ada)
	require.NoError(t, err)
	assert.InDelta(t, 1000, sum.Credits, 0.001)
	assert.InDelta(t, 300, sum.Debits, 0.001)
	assert.InDelta(t, 700, sum.Balance, 0.001)
	assert.Equal(t, 3, sum.Count)
}

func TestStore_SummaryEmpty(t *testing.T) {
	db, ada, _ := setupTestDB(t)
	sum, err := NewStore(db).Summary(context.Background(), ada)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, *sum)
}

func TestStore_UpdateDeleteOwnerOnly(t *testing.T) {
	db, ada, bob := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	tx, err := store.Create(ctx, ada, Input{Amount: 10, Description: "Lunch", Type: Debit, Date: date(time.April, 2)})
	require.NoError(t, err)

	_, err = store.Update(ctx, bob, tx.ID, Input{Amount: 1, Description: "x", Type: Debit, Date: date(time.April, 2)})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := store.Update(ctx, ada, tx.ID, Input{Amount: 12, Description: "Lunch", Type: Debit, Date: date(time.April, 2)})
	require.NoError(t, err)
	assert.InDelta(t, 12, updated.Amount, 0.001)

	assert.ErrorIs(t, store.Delete(ctx, bob, tx.ID), ErrNotFound)
	require.NoError(t, store.Delete(ctx, ada, tx.ID))
	_, err = store.Get(ctx, ada, tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
