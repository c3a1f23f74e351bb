// Package window defines the capability the orchestrator needs from a unit of
// UI: identity, a default layer, a sorting order, lifecycle state, presentation
// activation, and show/hide transitions that return animation handles.
package window

import "github.com/atomicstack/layerstack/internal/anim"

// Type identifies a kind of window. Providers resolve a Type to an instance.
type Type string

// GroupID identifies a layer such as "hud", "menu" or "overlay".
type GroupID string

// State is the lifecycle position of a window.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
	StateUnloaded
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateUnloaded:
		return "unloaded"
	default:
		return "unknown"
	}
}

// Settings controls how a window takes part in transitions.
type Settings struct {
	// HideWindowsBelow hides every window beneath this one while it is open.
	HideWindowsBelow bool
	// HideOnFocusLoss hides this window whenever another window covers it.
	HideOnFocusLoss bool
	// Sequential finishes hiding outgoing windows before showing incoming ones.
	Sequential bool
	// Escape registers the window on the escape chain while it holds focus.
	Escape bool
	// CloseOnEscape closes the window when a back-press reaches it and no
	// escape listener consumed the press.
	CloseOnEscape bool
}

// TransitionContext describes the transition a Show or Hide call belongs to.
type TransitionContext struct {
	From    Window
	To      Window
	IsFlush bool
}

// Window is implemented by anything the orchestrator can stack.
type Window interface {
	Type() Type
	Title() string
	DefaultGroup() GroupID
	Settings() Settings

	State() State
	SetState(State)

	SortingOrder() int
	SetSortingOrder(int)

	// Active reports whether the presentation is enabled (drawn).
	Active() bool
	SetActive(bool)

	// Show and Hide build the animation for the transition. The orchestrator
	// activates a window before starting its Show handle and deactivates it
	// after its Hide handle finishes.
	Show(TransitionContext) anim.Handle
	Hide(TransitionContext) anim.Handle

	// Listeners holds the lifecycle hooks attached at construction.
	Listeners() *Listeners

	// Create is called once by the provider after construction; Dispose once
	// when the provider releases the window.
	Create() error
	Dispose()
}

// Name returns a printable identifier for w, tolerating nil.
func Name(w Window) string {
	if w == nil {
		return ""
	}
	return string(w.Type())
}
