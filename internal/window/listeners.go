package window

// Lifecycle hook interfaces. A listener implements any subset of them.

type OpeningListener interface{ OnOpening(Window) }

type OpenedListener interface{ OnOpened(Window) }

type ClosingListener interface{ OnClosing(Window) }

type ClosedListener interface{ OnClosed(Window) }

type FocusGainedListener interface{ OnFocusGained(Window) }

type FocusLostListener interface{ OnFocusLost(Window) }

// EscapeListener reports whether it consumed a back-press.
type EscapeListener interface{ OnEscape(Window) bool }

// Event names a lifecycle transition.
type Event int

const (
	EventOpening Event = iota
	EventOpened
	EventClosing
	EventClosed
	EventFocusGained
	EventFocusLost
)

func (e Event) String() string {
	switch e {
	case EventOpening:
		return "opening"
	case EventOpened:
		return "opened"
	case EventClosing:
		return "closing"
	case EventClosed:
		return "closed"
	case EventFocusGained:
		return "focus-gained"
	case EventFocusLost:
		return "focus-lost"
	default:
		return "unknown"
	}
}

// Listeners is the ordered list of hook objects attached to a window.
type Listeners struct {
	items []any
}

// Add appends listeners. Values that implement none of the hook interfaces
// are kept but never called.
func (l *Listeners) Add(listeners ...any) {
	for _, item := range listeners {
		if item != nil {
			l.items = append(l.items, item)
		}
	}
}

// Len returns the number of attached listeners.
func (l *Listeners) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Emit calls every listener implementing the hook for ev, in attach order.
func (l *Listeners) Emit(ev Event, w Window) {
	if l == nil {
		return
	}
	for _, item := range l.items {
		switch ev {
		case EventOpening:
			if h, ok := item.(OpeningListener); ok {
				h.OnOpening(w)
			}
		case EventOpened:
			if h, ok := item.(OpenedListener); ok {
				h.OnOpened(w)
			}
		case EventClosing:
			if h, ok := item.(ClosingListener); ok {
				h.OnClosing(w)
			}
		case EventClosed:
			if h, ok := item.(ClosedListener); ok {
				h.OnClosed(w)
			}
		case EventFocusGained:
			if h, ok := item.(FocusGainedListener); ok {
				h.OnFocusGained(w)
			}
		case EventFocusLost:
			if h, ok := item.(FocusLostListener); ok {
				h.OnFocusLost(w)
			}
		}
	}
}

// Escape offers a back-press to escape listeners in attach order and stops at
// the first one that consumes it.
func (l *Listeners) Escape(w Window) bool {
	if l == nil {
		return false
	}
	for _, item := range l.items {
		if h, ok := item.(EscapeListener); ok && h.OnEscape(w) {
			return true
		}
	}
	return false
}

// Hooks adapts plain functions to the listener interfaces. Nil fields are
// skipped.
type Hooks struct {
	Opening     func(Window)
	Opened      func(Window)
	Closing     func(Window)
	Closed      func(Window)
	FocusGained func(Window)
	FocusLost   func(Window)
	Escape      func(Window) bool
}

func (h Hooks) OnOpening(w Window) {
	if h.Opening != nil {
		h.Opening(w)
	}
}

func (h Hooks) OnOpened(w Window) {
	if h.Opened != nil {
		h.Opened(w)
	}
}

func (h Hooks) OnClosing(w Window) {
	if h.Closing != nil {
		h.Closing(w)
	}
}

func (h Hooks) OnClosed(w Window) {
	if h.Closed != nil {
		h.Closed(w)
	}
}

func (h Hooks) OnFocusGained(w Window) {
	if h.FocusGained != nil {
		h.FocusGained(w)
	}
}

func (h Hooks) OnFocusLost(w Window) {
	if h.FocusLost != nil {
		h.FocusLost(w)
	}
}

func (h Hooks) OnEscape(w Window) bool {
	if h.Escape != nil {
		return h.Escape(w)
	}
	return false
}
