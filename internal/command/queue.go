package command

import (
	"container/heap"

	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/window"
)

// Entry is a queued command and the promise its caller awaits.
type Entry struct {
	Command Command
	Result  *promise.Promise[window.Window]
	seq     uint64
}

// Queue orders pending commands by priority, then by enqueue order.
type Queue struct {
	entries entryHeap
	seq     uint64
}

// Push enqueues cmd and returns its entry.
func (q *Queue) Push(cmd Command, result *promise.Promise[window.Window]) *Entry {
	q.seq++
	e := &Entry{Command: cmd, Result: result, seq: q.seq}
	heap.Push(&q.entries, e)
	return e
}

// Pop removes the next entry to run.
func (q *Queue) Pop() (*Entry, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	return heap.Pop(&q.entries).(*Entry), true
}

// Peek returns the next entry without removing it.
func (q *Queue) Peek() (*Entry, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	return q.entries[0], true
}

func (q *Queue) Len() int {
	return len(q.entries)
}

// Drain removes every entry and returns them in run order.
func (q *Queue) Drain() []*Entry {
	out := make([]*Entry, 0, len(q.entries))
	for {
		e, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

// Pending lists queued commands in run order without consuming them.
func (q *Queue) Pending() []Command {
	cp := make(entryHeap, len(q.entries))
	copy(cp, q.entries)
	out := make([]Command, 0, len(cp))
	for len(cp) > 0 {
		out = append(out, heap.Pop(&cp).(*Entry).Command)
	}
	return out
}

type entryHeap []*Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Command.Priority != h[j].Command.Priority {
		return h[i].Command.Priority < h[j].Command.Priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(*Entry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
