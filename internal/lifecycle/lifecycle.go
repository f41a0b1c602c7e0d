// Package lifecycle provides the typed event bus the host process uses to
// announce startup and route-reload progress to introspection observers.
package lifecycle

import "sync"

// Event is implemented by all lifecycle event types.
type Event interface {
	lifecycleEvent()
}

// ContextStarted is published once the host process has finished starting.
type ContextStarted struct{}

func (ContextStarted) lifecycleEvent() {}

// RoutesReloaded is published for each route in a reload batch. Index is
// zero-based and Total is the batch size, so observers can tell whether a
// given event closes its batch.
type RoutesReloaded struct {
	Index int
	Total int
}

func (RoutesReloaded) lifecycleEvent() {}

// Last reports whether this event is the final one of its reload batch.
func (e RoutesReloaded) Last() bool {
	return e.Index == e.Total-1
}

// Handler receives published events. Handlers run on the publisher's
// goroutine and must not block.
type Handler func(Event)

// Notifier is a minimal fan-out bus for lifecycle events.
type Notifier struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a handler for all subsequent events.
func (n *Notifier) Subscribe(h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, h)
}

// Publish delivers the event to every subscribed handler in subscription order.
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	handlers := make([]Handler, len(n.handlers))
	copy(handlers, n.handlers)
	n.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
