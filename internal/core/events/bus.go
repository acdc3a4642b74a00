package events

import "sync"

// Event describes a committed mutation. Published after the enclosing
// database transaction succeeds, never before.
type Event struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]interface{}
}

// Handler consumes events. Handlers must tolerate failure internally;
// the bus ignores anything that goes wrong inside them.
type Handler func(Event)

// Bus is a minimal in-process post-commit event dispatcher. Handlers run
// on their own goroutines so a slow or failing consumer (audit sink,
// email) cannot affect the request that published the event.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every handler asynchronously.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(e)
	}
}
