package group

import (
	"github.com/atomicstack/layerstack/internal/anim"
	"github.com/atomicstack/layerstack/internal/escape"
	"github.com/atomicstack/layerstack/internal/logging"
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/window"
)

// transition is the group's single in-flight animation.
type transition struct {
	op     string
	acting window.Window
	hides  []window.Window
	shows  []window.Window
	handle anim.Handle
	reg    *escape.Registration
	forced bool
	done   func(error)
}

// plan is the visibility change a stack mutation requires.
type plan struct {
	hides []window.Window
	shows []window.Window
}

// planVisibility compares each window's current presentation with the
// visibility rule for the current stack. extra windows (ones just removed
// from the stack) are hidden when still active.
func (m *Manager) planVisibility(extra ...window.Window) plan {
	var p plan
	for _, w := range extra {
		if w != nil && w.Active() {
			p.hides = append(p.hides, w)
		}
	}
	target := m.visibility()
	for i := len(m.stack) - 1; i >= 0; i-- {
		w := m.stack[i]
		switch {
		case w.Active() && !target[w]:
			p.hides = append(p.hides, w)
		case !w.Active() && target[w]:
			p.shows = append(p.shows, w)
		}
	}
	return p
}

// visibility walks the stack from the top. A window is hidden when a window
// above it hides everything below, or when it is covered and hides itself on
// focus loss.
func (m *Manager) visibility() map[window.Window]bool {
	visible := make(map[window.Window]bool, len(m.stack))
	hideBelow := false
	top := len(m.stack) - 1
	for i := top; i >= 0; i-- {
		w := m.stack[i]
		s := w.Settings()
		visible[w] = !hideBelow && (i == top || !s.HideOnFocusLoss)
		if s.HideWindowsBelow {
			hideBelow = true
		}
	}
	return visible
}

// applyVisibility switches presentation without animating: windows that
// change visibility run their Show or Hide to the final frame at once.
func (m *Manager) applyVisibility(ctx window.TransitionContext) {
	target := m.visibility()
	for _, w := range m.stack {
		switch {
		case target[w] && !w.Active():
			w.SetActive(true)
			m.snap(w, w.Show(ctx))
		case !target[w] && w.Active():
			m.snap(w, w.Hide(ctx))
			w.SetActive(false)
		}
	}
}

func (m *Manager) snap(w window.Window, h anim.Handle) {
	if h == nil {
		return
	}
	h.Complete()
	if err := h.Err(); err != nil {
		logging.Error(&TransitionError{Group: m.cfg.ID, Op: "focus", Type: w.Type(), Err: err})
	}
}

// startTransition animates p and calls done once the animation has finished,
// naturally or forced. Hides run before shows when sequential is set.
func (m *Manager) startTransition(op string, acting window.Window, p plan, ctx window.TransitionContext, skip bool, done func(error)) {
	if m.active != nil {
		panic(ErrTransitionActive)
	}
	if m.flushing {
		ctx.IsFlush = true
		skip = true
	}

	hideParts := make([]anim.Handle, 0, len(p.hides))
	for _, w := range p.hides {
		hideParts = append(hideParts, anim.Sequence(
			w.Hide(ctx),
			anim.Instant(func() error { w.SetActive(false); return nil }),
		))
	}
	showParts := make([]anim.Handle, 0, len(p.shows))
	for _, w := range p.shows {
		showParts = append(showParts, anim.Sequence(
			anim.Instant(func() error { w.SetActive(true); return nil }),
			w.Show(ctx),
		))
	}

	sequential := acting != nil && acting.Settings().Sequential
	var handle anim.Handle
	if sequential {
		handle = anim.Sequence(anim.Parallel(hideParts...), anim.Parallel(showParts...))
	} else {
		handle = anim.Parallel(append(hideParts, showParts...)...)
	}

	t := &transition{op: op, acting: acting, hides: p.hides, shows: p.shows, handle: handle, done: done}
	m.active = t
	m.phase = PhaseTransitioning
	t.reg = m.chain.Push(string(m.cfg.ID)+":transition", func() bool {
		t.forced = true
		t.handle.Complete()
		return true
	})
	events.Group.TransitionStart(string(m.cfg.ID), op, window.Name(acting), names(p.hides), names(p.shows), sequential)

	handle.OnDone(func(err error) { m.finishTransition(t, err) })
	handle.Start()
	if skip {
		t.forced = true
		handle.Complete()
	}
}

func (m *Manager) finishTransition(t *transition, err error) {
	if m.active != t {
		return
	}
	m.active = nil
	m.phase = PhaseIdle
	t.reg.Remove()

	// Presentation ends where the plan said it would even if an animation
	// step failed part way.
	for _, w := range t.hides {
		w.SetActive(false)
	}
	for _, w := range t.shows {
		w.SetActive(true)
	}

	if err != nil {
		err = &TransitionError{Group: m.cfg.ID, Op: t.op, Type: typeOf(t.acting), Err: err}
		logging.Error(err)
	}
	events.Group.TransitionDone(string(m.cfg.ID), t.op, window.Name(t.acting), t.forced, err)

	m.executing++
	defer func() { m.executing-- }()
	t.done(err)
}

// place moves w, already appended to the stack, to honour above and below
// constraints. Rules apply in order, above before below; a later rule may
// undo an earlier one.
func (m *Manager) place(w window.Window, above, below []window.Type) {
	for _, typ := range above {
		idx := m.indexOf(w)
		highest := -1
		for i, other := range m.stack {
			if other != w && other.Type() == typ {
				highest = i
			}
		}
		if highest >= idx {
			m.move(idx, highest)
		}
	}
	for _, typ := range below {
		idx := m.indexOf(w)
		lowest := -1
		for i, other := range m.stack {
			if other != w && other.Type() == typ {
				lowest = i
				break
			}
		}
		if lowest >= 0 && lowest < idx {
			m.move(idx, lowest)
		}
	}
}

// move relocates the element at from so that it ends up at index to.
func (m *Manager) move(from, to int) {
	if from == to || from < 0 {
		return
	}
	w := m.stack[from]
	m.stack = append(m.stack[:from], m.stack[from+1:]...)
	m.stack = append(m.stack[:to], append([]window.Window{w}, m.stack[to:]...)...)
}

// assignSorting gives every stack member Base + (position+1)*Stride.
func (m *Manager) assignSorting() {
	order := make(map[string]int, len(m.stack))
	for i, w := range m.stack {
		value := m.cfg.Base + (i+1)*Stride
		w.SetSortingOrder(value)
		order[string(w.Type())] = value
	}
	events.Group.Sorting(string(m.cfg.ID), order)
}

func names(ws []window.Window) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = window.Name(w)
	}
	return out
}

func typeOf(w window.Window) window.Type {
	if w == nil {
		return ""
	}
	return w.Type()
}
