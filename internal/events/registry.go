// internal/events/registry.go
package events

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrUnknownEventType is returned for persisted events with no registered factory.
var ErrUnknownEventType = errors.New("unknown event type")

// EventFactory returns a fresh pointer to decode a payload into.
type EventFactory func() Event

// Registry decodes persisted payloads back into concrete events.
type Registry struct {
	factories map[string]EventFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register binds eventType to factory, replacing any earlier binding.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal decodes raw into the event type it was persisted as.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, raw.EventType)
	}

	e := factory()
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("unmarshal event payload %d: %w", raw.ID, err)
	}
	return e, nil
}

// DefaultRegistry knows the sync lifecycle events.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventSyncStarted, func() Event { return &SyncStarted{} })
	r.Register(EventSyncCompleted, func() Event { return &SyncCompleted{} })
	r.Register(EventSyncFailed, func() Event { return &SyncFailed{} })
	return r
}
