package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeferredQueueOrder(t *testing.T) {
	var q deferredQueue
	var got []string
	q.schedule(2, func() { got = append(got, "b") })
	q.schedule(1, func() { got = append(got, "a") })
	q.schedule(2, func() { got = append(got, "c") })
	q.schedule(5, func() { got = append(got, "z") })

	assert.Equal(t, 0, q.runDue(0))
	assert.Equal(t, 3, q.runDue(2))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 1, q.len())

	q.clear()
	assert.Equal(t, 0, q.runDue(10))
}

func TestDeferredTaskMaySchedule(t *testing.T) {
	var q deferredQueue
	ran := 0
	q.schedule(1, func() {
		ran++
		q.schedule(1, func() { ran++ })
	})
	q.runDue(1)
	assert.Equal(t, 2, ran)
}
