package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	published int
	delivered int
	lastErr   error
}

func (o *testObserver) OnPublish(_ Event, handlers int, err error) {
	o.published++
	o.delivered += handlers
	o.lastErr = err
}

func TestPublishInSubscriptionOrder(t *testing.T) {
	b := New()
	var order []int
	b.Subscribe(InteractableAttached, func(Event) error { order = append(order, 1); return nil })
	b.Subscribe(InteractableAttached, func(Event) error { order = append(order, 2); return nil })
	b.Subscribe(InteractableDetached, func(Event) error { order = append(order, 99); return nil })

	require.NoError(t, b.Publish(NewEvent(InteractableAttached, "left", nil)))
	assert.Equal(t, []int{1, 2}, order)
}

func TestSubscribeAllSeesEveryType(t *testing.T) {
	b := New()
	var seen []string
	b.SubscribeAll(func(e Event) error { seen = append(seen, e.Type()); return nil })

	require.NoError(t, b.Publish(NewEvent(GraspTargetBegin, "left", nil)))
	require.NoError(t, b.Publish(NewEvent(InteractableCulled, "crate", nil)))
	assert.Equal(t, []string{GraspTargetBegin, InteractableCulled}, seen)
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1 := errors.New("one")
	e2 := errors.New("two")
	ran := 0
	b.Subscribe("x", func(Event) error { ran++; return e1 })
	b.Subscribe("x", func(Event) error { ran++; return e2 })

	err := b.Publish(NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.Equal(t, 2, ran)
	assert.Equal(t, uint64(1), b.GetMetrics().Errors)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New()
	count := 0
	sub := b.Subscribe("x", func(Event) error { count++; return nil })
	assert.Equal(t, uint64(1), b.GetMetrics().SubscribersActive)

	b.Unsubscribe(sub)
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)
	assert.False(t, sub.IsActive())
	assert.Equal(t, uint64(0), b.GetMetrics().SubscribersActive)

	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	assert.Zero(t, count)
}

func TestObservers(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)
	b.Subscribe("x", func(Event) error { return nil })

	require.NoError(t, b.Publish(NewEvent("x", "src", 1)))
	assert.Equal(t, 1, obs.published)
	assert.Equal(t, 1, obs.delivered)

	b.RemoveObserver(obs)
	require.NoError(t, b.Publish(NewEvent("x", "src", 2)))
	assert.Equal(t, 1, obs.published)
	assert.Equal(t, uint64(2), b.GetMetrics().Published)
}

func TestCancelDuringPublish(t *testing.T) {
	b := New()
	var later Subscription
	calls := 0
	b.Subscribe("x", func(Event) error {
		later.Cancel()
		return nil
	})
	later = b.Subscribe("x", func(Event) error {
		calls++
		return nil
	})
	require.NoError(t, b.Publish(NewEvent("x", "test", nil)))
	assert.Zero(t, calls)
	assert.False(t, later.IsActive())
}

func TestConcurrentCancelAndPublish(t *testing.T) {
	b := New()
	subs := make([]Subscription, 50)
	for i := range subs {
		subs[i] = b.Subscribe("x", func(Event) error { return nil })
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, s := range subs {
			s.Cancel()
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			_ = b.Publish(NewEvent("x", "test", nil))
		}
	}()
	wg.Wait()
	assert.Zero(t, b.GetMetrics().SubscribersActive)
	assert.Equal(t, uint64(50), b.GetMetrics().Published)
}
