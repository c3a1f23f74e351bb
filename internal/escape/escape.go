// Package escape implements the global back-press chain. Consumers are pushed
// and removed as windows gain and lose focus and while transitions animate.
// A press is offered only to the most recently pushed consumer that is still
// registered; the chain never cascades to older entries.
package escape

import "github.com/atomicstack/layerstack/internal/logging/events"

// Consumer handles a back-press and reports whether it consumed it.
type Consumer func() bool

// Chain is the ordered registry of consumers. It is owned by the loop
// goroutine and is not safe for concurrent use.
type Chain struct {
	entries []*Registration
}

// Registration is a handle to one pushed consumer.
type Registration struct {
	chain   *Chain
	name    string
	fn      Consumer
	removed bool
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// Push registers fn as the newest consumer.
func (c *Chain) Push(name string, fn Consumer) *Registration {
	r := &Registration{chain: c, name: name, fn: fn}
	c.entries = append(c.entries, r)
	events.Escape.Push(name, len(c.entries))
	return r
}

// Remove unregisters the consumer. It is safe on a nil or already removed
// registration.
func (r *Registration) Remove() {
	if r == nil || r.removed {
		return
	}
	r.removed = true
	c := r.chain
	for i, entry := range c.entries {
		if entry == r {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	events.Escape.Remove(r.name, len(c.entries))
}

// Active reports whether the registration is still in its chain.
func (r *Registration) Active() bool {
	return r != nil && !r.removed
}

// Name returns the label the consumer was pushed with.
func (r *Registration) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

// Press offers a back-press to the newest consumer.
func (c *Chain) Press() bool {
	top := c.Top()
	if top == nil {
		events.Escape.Press("", false)
		return false
	}
	consumed := top.fn != nil && top.fn()
	events.Escape.Press(top.name, consumed)
	return consumed
}

// Top returns the newest registration, or nil when the chain is empty.
func (c *Chain) Top() *Registration {
	if len(c.entries) == 0 {
		return nil
	}
	return c.entries[len(c.entries)-1]
}

// Len returns the number of live registrations.
func (c *Chain) Len() int {
	return len(c.entries)
}

// Names lists live registrations from oldest to newest.
func (c *Chain) Names() []string {
	names := make([]string, len(c.entries))
	for i, entry := range c.entries {
		names[i] = entry.name
	}
	return names
}
