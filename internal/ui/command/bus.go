package command

import (
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/window"
)

// Request identifies a submitted orchestrator command.
type Request struct {
	ID   string
	Kind string
	Type string
}

// Label renders the request for the status line, e.g. "open(map)".
func (r Request) Label() string {
	if r.Type == "" {
		return r.Kind
	}
	return r.Kind + "(" + r.Type + ")"
}

// Result is a settled request.
type Result struct {
	Request
	Window window.Window
	Err    error
}

type tracked struct {
	req  Request
	poll func() (window.Window, error, bool)
}

// Bus collects the outcome of orchestrator commands submitted by the UI.
// Results are gathered without blocking, so the bus is safe to drain from
// the Bubble Tea loop that also settles the promises.
type Bus struct {
	pending []tracked
}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Track watches a window command result.
func (b *Bus) Track(req Request, p *promise.Promise[window.Window]) {
	b.pending = append(b.pending, tracked{req: req, poll: p.Result})
}

// TrackAll watches a command that yields no window, such as close-all.
func (b *Bus) TrackAll(req Request, p *promise.Promise[struct{}]) {
	b.pending = append(b.pending, tracked{req: req, poll: func() (window.Window, error, bool) {
		_, err, ok := p.Result()
		return nil, err, ok
	}})
}

// Pending returns the number of unsettled requests.
func (b *Bus) Pending() int {
	return len(b.pending)
}

// Collect removes and returns every settled request in submission order.
func (b *Bus) Collect() []Result {
	var out []Result
	kept := b.pending[:0]
	for _, t := range b.pending {
		w, err, ok := t.poll()
		if !ok {
			kept = append(kept, t)
			continue
		}
		events.Command.Result(t.req.ID, t.req.Kind, t.req.Type, err)
		out = append(out, Result{Request: t.req, Window: w, Err: err})
	}
	clear(b.pending[len(kept):])
	b.pending = kept
	return out
}
