// Package sched is the delayed-callback facility the animation loop hosts.
// Callbacks never run on their own goroutine: they fire from Advance, which
// the frame loop calls once per tick, so everything they touch stays on the
// single animation thread.
package sched

import (
	"container/heap"
	"sync/atomic"
	"time"
)

// Clock reports monotonic time since the clock started.
type Clock interface {
	Now() time.Duration
}

// Scheduler defers callbacks.
type Scheduler interface {
	Clock
	After(d time.Duration, fn func()) *Task
}

// Task is the handle for one scheduled callback.
type Task struct {
	due       time.Duration
	seq       uint64
	fn        func()
	cancelled atomic.Bool
	fired     atomic.Bool
}

// Cancel prevents the callback from running if it has not fired yet.
// It reports whether the cancellation took effect.
func (t *Task) Cancel() bool {
	if t == nil || t.fired.Load() {
		return false
	}
	return t.cancelled.CompareAndSwap(false, true)
}

// Cancelled reports whether Cancel was called before the task fired.
func (t *Task) Cancelled() bool { return t != nil && t.cancelled.Load() }

// Fired reports whether the callback ran.
func (t *Task) Fired() bool { return t != nil && t.fired.Load() }

// Due is the clock reading at which the task fires.
func (t *Task) Due() time.Duration { return t.due }

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(*Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Queue is a virtual-clock Scheduler. Time only moves when Advance is
// called. Tasks due at the same instant fire in the order they were scheduled.
type Queue struct {
	now   time.Duration
	seq   uint64
	tasks taskHeap
}

// NewQueue returns an empty queue at time zero.
func NewQueue() *Queue { return &Queue{} }

// Now returns the queue's clock.
func (q *Queue) Now() time.Duration { return q.now }

// After schedules fn to run once the clock has moved d past now.
// Negative delays are treated as zero.
func (q *Queue) After(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	q.seq++
	t := &Task{due: q.now + d, seq: q.seq, fn: fn}
	heap.Push(&q.tasks, t)
	return t
}

// Pending counts scheduled tasks that have neither fired nor been cancelled.
func (q *Queue) Pending() int {
	n := 0
	for _, t := range q.tasks {
		if !t.cancelled.Load() {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and fires every task that became
// due, in due order. Callbacks may schedule further tasks; those fire in
// the same call when they fall due within the window.
func (q *Queue) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := q.now + d
	fired := 0
	for len(q.tasks) > 0 && q.tasks[0].due <= target {
		t := heap.Pop(&q.tasks).(*Task)
		if t.due > q.now {
			q.now = t.due
		}
		if t.cancelled.Load() {
			continue
		}
		t.fired.Store(true)
		if t.fn != nil {
			t.fn()
		}
		fired++
	}
	q.now = target
	return fired
}

// Clear cancels every pending task.
func (q *Queue) Clear() {
	for _, t := range q.tasks {
		t.Cancel()
	}
	q.tasks = q.tasks[:0]
}
