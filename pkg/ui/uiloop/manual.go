package uiloop

import (
	"container/heap"
	"time"

	"github.com/aretw0/waypoint/pkg/ui"
)

// Manual is a ui.Loop with a virtual clock. It is not safe for concurrent use:
// the goroutine calling Advance and Flush is the UI-owning context.
type Manual struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
}

// NewManual creates a loop whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Post implements ui.Loop.
func (m *Manual) Post(fn func()) {
	m.schedule(0, fn)
}

// AfterFunc implements ui.Loop.
func (m *Manual) AfterFunc(d time.Duration, fn func()) ui.Timer {
	return m.schedule(d, fn)
}

// Pending returns the number of scheduled, unfired tasks.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.queue {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Flush runs every task due at the current time, including tasks those tasks post.
func (m *Manual) Flush() {
	m.Advance(0)
}

// Advance moves the clock forward by d, running due tasks in order of due time and
// scheduling sequence.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for m.queue.Len() > 0 {
		next := m.queue[0]
		if next.due > target {
			break
		}
		heap.Pop(&m.queue)
		if next.stopped {
			continue
		}
		if next.due > m.now {
			m.now = next.due
		}
		next.fired = true
		next.fn()
	}
	m.now = target
}

func (m *Manual) schedule(d time.Duration, fn func()) *manualTask {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{due: m.now + d, seq: m.seq, fn: fn}
	heap.Push(&m.queue, t)
	return t
}

type manualTask struct {
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
	index   int
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type taskQueue []*manualTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*manualTask)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
