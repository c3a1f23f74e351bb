// Package command describes lifecycle requests against windows and the
// per-group priority queue that holds them while a transition is active.
package command

import (
	"errors"
	"fmt"
	"slices"

	"github.com/atomicstack/layerstack/internal/window"
)

// Kind is the lifecycle operation a command requests.
type Kind int

const (
	KindOpen Kind = iota
	KindClose
	KindToggle
	KindFocus
	KindLoad
	KindUnload
	// KindCloseAll closes every window of one group in a single transition.
	KindCloseAll
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	case KindToggle:
		return "toggle"
	case KindFocus:
		return "focus"
	case KindLoad:
		return "load"
	case KindUnload:
		return "unload"
	case KindCloseAll:
		return "close-all"
	default:
		return "unknown"
	}
}

// ErrCancelled rejects commands removed from a queue before they ran.
var ErrCancelled = errors.New("command cancelled")

// IsCancelled reports whether err means the command never ran.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// Command is one immutable lifecycle request. Lower Priority runs first.
type Command struct {
	ID            string
	Kind          Kind
	Type          window.Type
	Instance      window.Window
	Group         window.GroupID
	Priority      int
	Immediate     bool
	SkipAnimation bool
	Above         []window.Type
	Below         []window.Type
}

// Target returns the window type the command acts on, preferring the bound
// instance.
func (c Command) Target() window.Type {
	if c.Instance != nil {
		return c.Instance.Type()
	}
	return c.Type
}

// WithInstance returns a copy of c bound to w.
func (c Command) WithInstance(w window.Window) Command {
	c.Instance = w
	if w != nil && c.Type == "" {
		c.Type = w.Type()
	}
	return c
}

func (c Command) String() string {
	if c.Kind == KindCloseAll {
		return fmt.Sprintf("%s(%s)", c.Kind, c.Group)
	}
	return fmt.Sprintf("%s(%s)", c.Kind, c.Target())
}

func (c Command) clone() Command {
	c.Above = slices.Clone(c.Above)
	c.Below = slices.Clone(c.Below)
	return c
}
