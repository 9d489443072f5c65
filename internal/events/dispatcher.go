package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler reacts to a content event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans post and quiz events out to the subscribed handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type syncDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a dispatcher that runs handlers on the
// publishing goroutine.
func NewInMemoryDispatcher() Dispatcher {
	return &syncDispatcher{handlers: make(map[EventType][]EventHandler)}
}

// Publish runs the handlers for event.Type in subscription order before it
// returns, so a listing invalidation triggered by a write is visible to the
// next read. Every handler runs even if an earlier one fails; the failures are
// joined and tagged with the event type and subject. Handlers still pending
// when ctx is cancelled are skipped.
func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := d.handlers[event.Type]
	d.mu.RUnlock()

	var errs []error
	for i, handle := range handlers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %d handler(s) skipped: %w", event.Type, event.SubjectID, len(handlers)-i, err))
			break
		}
		if err := handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", event.Type, event.SubjectID, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe appends handler to the handlers for eventType.
func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// Copy on write: Publish iterates the slice it read without the lock.
	list := d.handlers[eventType]
	d.handlers[eventType] = append(list[:len(list):len(list)], handler)
}
