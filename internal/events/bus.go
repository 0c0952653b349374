package events

import (
	"context"
	"log/slog"
	"sync"
)

// subscription is one subscriber channel and the event types it wants.
// An empty types set receives every event.
type subscription struct {
	ch    chan Event
	types map[string]bool
}

func (s *subscription) wants(eventType string) bool {
	return len(s.types) == 0 || s.types[eventType]
}

// Bus fans published events out to subscribers and persists them to the EventLog.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	log    *EventLog // may be nil
	logger *slog.Logger
	closed bool
}

// NewBus creates a new event bus.
// The EventLog is optional - pass nil to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		log:    log,
		logger: logger.With("component", "events"),
	}
}

// Publish persists e and delivers it to every interested subscriber.
// Delivery never blocks: a full subscriber channel drops the event.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	if b.log != nil {
		if _, err := b.log.Append(e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	for _, s := range b.subs {
		if !s.wants(e.EventType()) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}
	return nil
}

// Subscribe returns a channel receiving events of the given types,
// or of every type when none are given.
func (b *Bus) Subscribe(bufferSize int, eventTypes ...string) <-chan Event {
	s := &subscription{ch: make(chan Event, bufferSize), types: make(map[string]bool, len(eventTypes))}
	for _, t := range eventTypes {
		s.types[t] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s.ch
	}
	b.subs = append(b.subs, s)
	return s.ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.ch == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(s.ch)
			return
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}
