// Package bus provides the ordered in-process notification dispatcher the
// connection manager publishes through.
package bus

import (
	"sync"
	"sync/atomic"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"

	"go.uber.org/zap"
)

type subscription struct {
	fn     func(entity.Event)
	active atomic.Bool
}

// InMemoryBus dispatches events synchronously to the subscribers of the
// event's kind, in registration order. Because dispatch happens on the
// publisher's goroutine, publish order is observation order.
type InMemoryBus struct {
	mu     sync.Mutex
	subs   map[entity.EventKind][]*subscription
	logger *zap.Logger
}

var _ port.Bus = (*InMemoryBus)(nil)

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	return &InMemoryBus{
		subs:   make(map[entity.EventKind][]*subscription),
		logger: logger,
	}
}

// Publish delivers evt to every active subscriber of its kind. Handlers run
// synchronously; a handler may unsubscribe itself (or others) mid-dispatch,
// in which case the revoked handler is skipped for the rest of the dispatch.
func (b *InMemoryBus) Publish(evt entity.Event) {
	b.mu.Lock()
	snapshot := make([]*subscription, len(b.subs[evt.Kind]))
	copy(snapshot, b.subs[evt.Kind])
	b.mu.Unlock()

	b.logger.Debug("publishing event", zap.String("kind", string(evt.Kind)), zap.Int("subscribers", len(snapshot)))

	for _, sub := range snapshot {
		if sub.active.Load() {
			sub.fn(evt)
		}
	}
}

// Subscribe registers fn for events of the given kind and returns its
// unsubscribe function. Unsubscribing twice is harmless.
func (b *InMemoryBus) Subscribe(kind entity.EventKind, fn func(entity.Event)) func() {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	b.mu.Lock()
	b.subs[kind] = append(b.subs[kind], sub)
	b.mu.Unlock()

	return func() {
		sub.active.Store(false)
		b.mu.Lock()
		current := b.subs[kind]
		for i, s := range current {
			if s == sub {
				b.subs[kind] = append(current[:i:i], current[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
	}
}
