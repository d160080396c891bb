package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps a published event with delivery metadata.
type Envelope struct {
	ID    string
	Kind  Kind
	At    time.Time
	Event Event
}

// Handler receives a published event. Returning is the only contract; a
// panicking handler is recovered and logged so the publisher never notices.
type Handler func(Envelope)

// Bus is a synchronous in-memory event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	all      []Handler
	logger   *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[Kind][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for one event kind.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// SubscribeAll registers a handler for every event kind.
func (b *Bus) SubscribeAll(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish delivers the event to all matching handlers, in subscription order,
// on the caller's goroutine. Handler panics are logged and swallowed.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[e.Kind()])+len(b.all))
	handlers = append(handlers, b.handlers[e.Kind()]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	env := Envelope{
		ID:    uuid.NewString(),
		Kind:  e.Kind(),
		At:    time.Now().UTC(),
		Event: e,
	}
	for _, h := range handlers {
		b.deliver(env, h)
	}
}

func (b *Bus) deliver(env Envelope, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event_id", env.ID, "kind", env.Kind, "panic", r)
		}
	}()
	h(env)
}
