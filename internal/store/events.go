package store

import (
	"sync"

	"matching-engine/internal/domain"
)

// EventLog is a thread-safe append-only log of published events,
// chronological per security and overall.
type EventLog struct {
	mu     sync.RWMutex
	events []domain.Event
}

// NewEventLog creates an empty EventLog.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append adds events to the log in order.
func (l *EventLog) Append(events ...domain.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, events...)
}

// List returns all events in chronological order. A copy is returned so
// callers cannot mutate the log.
func (l *EventLog) List() []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Event, len(l.events))
	copy(out, l.events)
	return out
}

// ListBySecurity returns the events for one security in chronological order.
func (l *EventLog) ListBySecurity(isin string) []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Event, 0)
	for _, e := range l.events {
		if e.SecurityISIN == isin {
			out = append(out, e)
		}
	}
	return out
}
