package events

import "time"

// Bus is an in-process pub/sub bus for session events.
//
// Delivery is synchronous on the publishing goroutine, in subscription
// order. Handler errors are joined and returned from Publish; a failing
// handler does not stop delivery to the others.
type Bus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// Subscribe registers a handler for one event type.
	Subscribe(eventType string, handler Handler) Subscription
	// SubscribeAll registers a handler receiving every event.
	SubscribeAll(handler Handler) Subscription
	// Unsubscribe cancels the subscription. Nil and already cancelled
	// subscriptions are ignored.
	Unsubscribe(Subscription)

	// AddObserver registers an observer to receive delivery callbacks.
	AddObserver(obs Observer)
	// RemoveObserver unregisters a previously added observer.
	RemoveObserver(obs Observer)
	// GetMetrics returns a snapshot of the delivery counters.
	GetMetrics() Metrics
}

// Event is an immutable message transported by the Bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// Handler is invoked per delivered event.
type Handler func(event Event) error

// Subscription is a registered handler.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel()
}

// Observer is notified about every publish. Observers should return quickly.
type Observer interface {
	OnPublish(event Event, handlers int, err error)
}

// Metrics counts deliveries since the bus was created.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
