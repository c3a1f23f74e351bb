package group

import (
	"github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/escape"
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/window"
)

// changeFocus moves input focus from one window to another, either of which
// may be nil, and keeps the group's escape registration on the focused window.
func (m *Manager) changeFocus(from, to window.Window) {
	if from == to {
		return
	}
	if from != nil {
		m.emit(window.EventFocusLost, from)
	}
	m.focusReg.Remove()
	m.focusReg = nil
	m.focused = to
	if to == nil {
		return
	}
	m.emit(window.EventFocusGained, to)
	if !m.cfg.Background && to.Settings().Escape {
		var reg *escape.Registration
		reg = m.chain.Push(string(m.cfg.ID)+":"+string(to.Type()), func() bool {
			return m.handleEscape(reg, to)
		})
		m.focusReg = reg
	}
}

// Focused returns the window currently holding the group's input focus.
func (m *Manager) Focused() window.Window {
	return m.focused
}

func (m *Manager) handleEscape(reg *escape.Registration, w window.Window) bool {
	if m.cfg.PassEscape {
		reg.Remove()
		if m.focusReg == reg {
			m.focusReg = nil
		}
		events.Escape.Drop(reg.Name())
		return false
	}

	m.executing++
	consumed := w.Listeners().Escape(w)
	m.executing--
	if consumed {
		return true
	}
	if w.Settings().CloseOnEscape {
		m.Submit(command.Close(w.Type()).WithInstance(w).InGroup(m.cfg.ID).Build())
		return true
	}
	return false
}
