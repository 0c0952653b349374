// internal/events/sync.go
package events

// Event type constants
const (
	EventSyncStarted   = "sync.started"
	EventSyncCompleted = "sync.completed"
	EventSyncFailed    = "sync.failed"
)

// Sync events use the collection name ("movies", "shows") as entity type and the
// run id as entity id, so all events of one run share an entity.

// SyncStarted is emitted when a library sync run begins.
type SyncStarted struct {
	BaseEvent
	RequestedBy string `json:"requested_by,omitempty"` // user id of the caller
}

// SyncCompleted is emitted when a sync run fetched and reconciled successfully.
type SyncCompleted struct {
	BaseEvent
	Fetched    int      `json:"fetched"`
	Listed     int      `json:"listed"`
	Inserted   int      `json:"inserted"`
	Updated    int      `json:"updated"`
	Unchanged  int      `json:"unchanged"`
	Pruned     int      `json:"pruned"`
	Skipped    int      `json:"skipped"`
	SkippedIDs []string `json:"skipped_ids,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// SyncFailed is emitted when a sync run aborted without reconciling.
type SyncFailed struct {
	BaseEvent
	Error      string `json:"error"`
	DurationMS int64  `json:"duration_ms"`
}
