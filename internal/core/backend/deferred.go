package backend

import "container/heap"

type task struct {
	due   uint64
	seq   uint64
	fn    func()
	index int
}

// taskHeap orders tasks by due frame, then by scheduling order.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// deferredQueue runs callbacks on a later Update tick.
type deferredQueue struct {
	h   taskHeap
	seq uint64
}

func (q *deferredQueue) schedule(due uint64, fn func()) {
	q.seq++
	heap.Push(&q.h, &task{due: due, seq: q.seq, fn: fn})
}

// runDue pops and runs every task due at or before frame. Tasks scheduled
// by a running task for the same frame run in this call too.
func (q *deferredQueue) runDue(frame uint64) int {
	n := 0
	for q.h.Len() > 0 && q.h[0].due <= frame {
		t := heap.Pop(&q.h).(*task)
		t.fn()
		n++
	}
	return n
}

func (q *deferredQueue) clear() {
	q.h = nil
}

func (q *deferredQueue) len() int { return q.h.Len() }
