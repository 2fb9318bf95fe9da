package sched

import (
	"container/list"

	"weenixgo/kernel/kassert"
)

// Queue is a wait queue: an ordered sequence of threads with
// enqueue-at-head, dequeue-from-tail semantics (spec.md §3), giving FIFO
// wakeup order. The global run queue is one distinguished Queue.
//
// Queue restores sched_queue_init/sched_queue_empty as explicit public
// ops (SPEC_FULL.md §9); NewQueue and Empty are those two.
type Queue struct {
	list *list.List
	size int
}

// NewQueue creates an empty wait queue.
func NewQueue() *Queue {
	return &Queue{list: list.New()}
}

// Empty reports whether the queue has no threads linked on it.
func (q *Queue) Empty() bool { return q.size == 0 }

// Size returns the number of threads linked on the queue (spec.md §8
// invariant 2: q.size must always equal this count).
func (q *Queue) Size() int { return q.size }

func (q *Queue) enqueue(t *Thread) {
	kassert.True(t.waitChannel == nil, "thread %d enqueued while already on a queue", t.ID)
	t.qlink = q.list.PushFront(t)
	t.waitChannel = q
	q.size++
}

func (q *Queue) dequeue() *Thread {
	elem := q.list.Back()
	if elem == nil {
		return nil
	}
	t := elem.Value.(*Thread)
	q.list.Remove(elem)
	t.waitChannel = nil
	t.qlink = nil
	q.size--
	return t
}

// remove splices t out of q regardless of its position; used by Cancel to
// pull a sleeping-cancellable thread off whatever queue it is actually on
// (SPEC_FULL.md §4.1's note on the source's sched_cancel typo: dequeue
// means "remove this specific thread from its wait channel", not "pop the
// tail of some other queue").
func (q *Queue) remove(t *Thread) {
	kassert.True(t.qlink != nil && t.waitChannel == q, "thread %d not linked on this queue", t.ID)
	q.list.Remove(t.qlink)
	t.waitChannel = nil
	t.qlink = nil
	q.size--
}
