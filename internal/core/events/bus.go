// Package events carries session notifications (backend lifecycle, attach,
// detach, drop, cull) from the core to loggers, telemetry and tests.
package events

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// simpleEvent is the Event implementation used by the core.
type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates an Event stamped with the current time.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   Handler
	active    atomic.Bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active.Load() }
func (s *subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// inMemoryBus keeps handlers per event type in subscription order.
type inMemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]*subscription
	metrics   Metrics
	observers []Observer
}

// New creates a new Bus instance.
func New() Bus {
	return &inMemoryBus{
		handlers: make(map[string][]*subscription),
	}
}

func (b *inMemoryBus) Subscribe(eventType string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &subscription{id: uuid.NewString(), eventType: eventType, handler: handler}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !s.active.CompareAndSwap(true, false) {
			return
		}
		subs := b.handlers[eventType]
		if i := slices.Index(subs, s); i >= 0 {
			b.handlers[eventType] = slices.Delete(subs, i, i+1)
		}
		b.metrics.SubscribersActive--
	}
	b.handlers[eventType] = append(b.handlers[eventType], s)
	b.metrics.SubscribersActive++
	return s
}

func (b *inMemoryBus) SubscribeAll(handler Handler) Subscription {
	return b.Subscribe(wildcard, handler)
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) {
	if sub == nil {
		return
	}
	sub.Cancel()
}

func (b *inMemoryBus) AddObserver(obs Observer) {
	b.mu.Lock()
	b.observers = append(b.observers, obs)
	b.mu.Unlock()
}

func (b *inMemoryBus) RemoveObserver(obs Observer) {
	b.mu.Lock()
	if i := slices.Index(b.observers, obs); i >= 0 {
		b.observers = slices.Delete(b.observers, i, i+1)
	}
	b.mu.Unlock()
}

func (b *inMemoryBus) GetMetrics() Metrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

func (b *inMemoryBus) Publish(event Event) error {
	b.mu.RLock()
	etype := event.Type()
	subs := make([]*subscription, 0, len(b.handlers[etype])+len(b.handlers[wildcard]))
	subs = append(subs, b.handlers[etype]...)
	if etype != wildcard {
		subs = append(subs, b.handlers[wildcard]...)
	}
	observers := slices.Clone(b.observers)
	b.mu.RUnlock()

	var all error
	delivered := 0
	for _, s := range subs {
		// a handler may cancel a later subscription mid-publish
		if !s.active.Load() {
			continue
		}
		delivered++
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	b.mu.Lock()
	b.metrics.Published++
	b.metrics.DeliveredHandlers += uint64(delivered)
	if all != nil {
		b.metrics.Errors++
	}
	b.mu.Unlock()

	for _, obs := range observers {
		obs.OnPublish(event, delivered, all)
	}
	return all
}
