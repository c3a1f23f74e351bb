package group

import (
	"github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/window"
)

type outcome = *promise.Promise[window.Window]

func (m *Manager) execute(cmd command.Command, w window.Window, res outcome) {
	m.executing++
	defer func() { m.executing-- }()

	switch cmd.Kind {
	case command.KindOpen:
		if m.Contains(w) {
			m.focus(cmd, w, res)
			return
		}
		m.open(cmd, w, res)
	case command.KindClose:
		if !m.Contains(w) {
			m.noop(cmd, res, w, "not open")
			return
		}
		m.close(cmd, w, res, nil)
	case command.KindToggle:
		if m.Contains(w) {
			m.close(cmd, w, res, nil)
			return
		}
		m.open(cmd, w, res)
	case command.KindFocus:
		m.focus(cmd, w, res)
	case command.KindLoad:
		m.load(cmd, w, res)
	case command.KindUnload:
		m.unload(cmd, w, res)
	default:
		m.noop(cmd, res, w, "unsupported")
	}
}

func (m *Manager) open(cmd command.Command, w window.Window, res outcome) {
	previous := m.Top()
	w.SetState(window.StateOpening)
	m.emit(window.EventOpening, w)

	m.stack = append(m.stack, w)
	m.place(w, cmd.Above, cmd.Below)
	if top := m.Top(); top != previous {
		m.changeFocus(previous, top)
	}
	m.assignSorting()

	ctx := window.TransitionContext{From: previous, To: w}
	m.startTransition("open", w, m.planVisibility(), ctx, cmd.SkipAnimation, func(err error) {
		w.SetState(window.StateOpen)
		m.emit(window.EventOpened, w)
		m.assignSorting()
		m.resolve(cmd, res, w, err)
	})
}

// close removes w from the stack and hides it. after runs once the closed
// callbacks have fired and before the command's promise settles.
func (m *Manager) close(cmd command.Command, w window.Window, res outcome, after func()) {
	previous := m.Top()
	w.SetState(window.StateClosing)
	m.emit(window.EventClosing, w)

	idx := m.indexOf(w)
	m.stack = append(m.stack[:idx], m.stack[idx+1:]...)
	top := m.Top()
	if w == previous {
		m.changeFocus(w, top)
	}
	m.assignSorting()

	ctx := window.TransitionContext{From: w, To: top}
	m.startTransition("close", w, m.planVisibility(w), ctx, cmd.SkipAnimation, func(err error) {
		w.SetState(window.StateClosed)
		w.SetActive(false)
		m.emit(window.EventClosed, w)
		m.assignSorting()
		if after != nil {
			after()
		}
		m.resolve(cmd, res, w, err)
	})
}

// focus brings w to the top without animating. The presentation of windows
// whose visibility changes is switched directly.
func (m *Manager) focus(cmd command.Command, w window.Window, res outcome) {
	idx := m.indexOf(w)
	if idx < 0 {
		m.noop(cmd, res, w, "not open")
		return
	}
	previous := m.Top()
	if previous == w {
		m.noop(cmd, res, w, "already focused")
		return
	}
	m.move(idx, len(m.stack)-1)
	m.changeFocus(previous, w)
	m.applyVisibility(window.TransitionContext{From: previous, To: w})
	m.assignSorting()
	m.resolve(cmd, res, w, nil)
}

func (m *Manager) load(cmd command.Command, w window.Window, res outcome) {
	if !m.Contains(w) {
		w.SetActive(false)
	}
	m.resolve(cmd, res, w, nil)
}

func (m *Manager) unload(cmd command.Command, w window.Window, res outcome) {
	release := func() {
		if m.provider != nil {
			m.provider.Unload(w.Type())
		}
	}
	if m.Contains(w) {
		m.close(cmd, w, res, release)
		return
	}
	w.SetActive(false)
	release()
	m.resolve(cmd, res, w, nil)
}

// closeAll empties the stack in a single transition that hides every
// visible window together.
func (m *Manager) closeAll(cmd command.Command, res outcome) {
	if len(m.stack) == 0 {
		m.noop(cmd, res, nil, "empty")
		return
	}
	m.executing++
	defer func() { m.executing-- }()

	previous := m.Top()
	closing := m.Stack()
	for i := len(closing) - 1; i >= 0; i-- {
		closing[i].SetState(window.StateClosing)
		m.emit(window.EventClosing, closing[i])
	}
	m.stack = m.stack[:0]
	m.changeFocus(previous, nil)

	ctx := window.TransitionContext{From: previous}
	m.startTransition("close-all", previous, m.planVisibility(reverse(closing)...), ctx, cmd.SkipAnimation, func(err error) {
		for i := len(closing) - 1; i >= 0; i-- {
			w := closing[i]
			w.SetState(window.StateClosed)
			w.SetActive(false)
			m.emit(window.EventClosed, w)
		}
		m.resolve(cmd, res, previous, err)
	})
}

func reverse(ws []window.Window) []window.Window {
	out := make([]window.Window, len(ws))
	for i, w := range ws {
		out[len(ws)-1-i] = w
	}
	return out
}
