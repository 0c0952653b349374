// internal/api/v1/types.go
package v1

import (
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vmunix/controlroom/internal/auth"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/mediasync"
)

// Date accepts either a calendar date ("2006-01-02") or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.RFC3339))
}

// timePtr converts an optional Date.
func timePtr(d *Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required,max=128"`
	Surname  string `json:"surname" validate:"max=128"`
	Birthday *Date  `json:"birthday,omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string     `json:"message"`
	User    *auth.User `json:"user"`
}

type updateMeRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	Surname  string `json:"surname" validate:"max=128"`
	Birthday *Date  `json:"birthday,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=72"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type listMoviesResponse struct {
	Items  []*library.StoredMovie `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type listShowsResponse struct {
	Items  []*library.StoredShow `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// syncResponse is returned by the sync endpoints on success.
// Message always names skipped items when there were any.
type syncResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Result     *mediasync.Result `json:"result"`
	DurationMS int64             `json:"durationMs"`
}

type plexStatusResponse struct {
	Configured bool            `json:"configured"`
	Reachable  bool            `json:"reachable"`
	Name       string          `json:"name,omitempty"`
	Version    string          `json:"version,omitempty"`
	Error      string          `json:"error,omitempty"`
	Syncing    map[string]bool `json:"syncing"`
}

// historyItem is one persisted sync event.
type historyItem struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	EntityType string `json:"entityType"`
	RunID      string `json:"runId"`
	OccurredAt string `json:"occurredAt"`
	Details    any    `json:"details,omitempty"`
}

type historyResponse struct {
	Items []historyItem `json:"items"`
}

type diaryRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"max=64"`
	Tags     []string `json:"tags" validate:"max=32,dive,max=64"`
}

type noteRequest struct {
	SessionDate Date   `json:"sessionDate"`
	Content     string `json:"content" validate:"required"`
}

type transactionRequest struct {
	Amount             float64 `json:"amount" validate:"gt=0"`
	Description        string  `json:"description" validate:"required,max=200"`
	Type               string  `json:"type" validate:"required,oneof=CREDIT DEBIT credit debit"`
	Date               Date    `json:"date"`
	IsRecurring        bool    `json:"isRecurring"`
	RecurrenceInterval string  `json:"recurrenceInterval" validate:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY YEARLY"`
	RecurrenceEndDate  *Date   `json:"recurrenceEndDate,omitempty"`
}
