package todo

import (
	"context"
	"errors"
	"time"
)

// EventType names a change to a todo.
type EventType string

const (
	EventCreated EventType = "todo.created"
	EventUpdated EventType = "todo.updated"
	EventDeleted EventType = "todo.deleted"
)

// Event describes a committed change. Todo is nil for deletions.
type Event struct {
	Type       EventType `json:"type"`
	ID         int       `json:"id"`
	Todo       *Todo     `json:"todo,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers change events, e.g. to Kafka.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Publishers fans an event out to every publisher. All are attempted; their
// errors are joined.
type Publishers []Publisher

// Publish implements Publisher.
func (ps Publishers) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range ps {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
