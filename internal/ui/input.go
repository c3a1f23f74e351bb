package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	wincmd "github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/coordinator"
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/ui/command"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg := msg.(tea.KeyMsg)
	events.UI.Key(keyMsg.String())
	if m.picker != nil {
		return m.handlePickerKey(keyMsg)
	}
	m.errMsg = ""

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m.quit("key")
	case key.Matches(keyMsg, m.keys.Back):
		return m.handleBack()
	case key.Matches(keyMsg, m.keys.Open):
		m.openPicker(pickOpen)
	case key.Matches(keyMsg, m.keys.Toggle):
		m.openPicker(pickToggle)
	case key.Matches(keyMsg, m.keys.Focus):
		m.openPicker(pickFocus)
	case key.Matches(keyMsg, m.keys.Load):
		m.openPicker(pickLoad)
	case key.Matches(keyMsg, m.keys.Unload):
		m.openPicker(pickUnload)
	case key.Matches(keyMsg, m.keys.CloseTop):
		m.closeTop()
	case key.Matches(keyMsg, m.keys.CloseAll):
		m.closeAll(coordinator.Sequential)
	case key.Matches(keyMsg, m.keys.CloseAllParallel):
		m.closeAll(coordinator.Parallel)
	case key.Matches(keyMsg, m.keys.CloseAllNow):
		m.coord.CloseAllImmediate()
		m.setInfo(m.now(), "closed all windows")
	case key.Matches(keyMsg, m.keys.Flush):
		m.coord.FlushCommandQueue()
		m.setInfo(m.now(), "flushed command queues")
	case key.Matches(keyMsg, m.keys.Clear):
		n := m.coord.ClearCommandQueue()
		m.setInfo(m.now(), fmt.Sprintf("cancelled %d queued command(s)", n))
	case key.Matches(keyMsg, m.keys.SkipAnimation):
		m.skipAnimation = !m.skipAnimation
	case key.Matches(keyMsg, m.keys.Immediate):
		m.immediate = !m.immediate
	case key.Matches(keyMsg, m.keys.Inspector):
		m.showInspector = !m.showInspector
		events.UI.Inspector(m.showInspector)
	}
	return nil
}

// handleBack offers the press to the escape chain. An unconsumed press quits
// once no foreground window is left open.
func (m *Model) handleBack() tea.Cmd {
	if m.coord.Escape() {
		return nil
	}
	if m.foregroundOpen() {
		m.setInfo(m.now(), "nothing to go back from")
		return nil
	}
	return m.quit("escape")
}

func (m *Model) foregroundOpen() bool {
	for _, g := range m.coord.Groups() {
		if !g.Config().Background && g.Top() != nil {
			return true
		}
	}
	return false
}

func (m *Model) quit(reason string) tea.Cmd {
	events.App.Quit(reason)
	m.quitting = true
	return tea.Quit
}

func (m *Model) closeTop() {
	top := m.coord.Top()
	if top == nil {
		m.setInfo(m.now(), "no open windows")
		return
	}
	m.submit(m.coord.Close(top.Type()).WithInstance(top))
}

func (m *Model) closeAll(mode coordinator.Mode) {
	req := command.Request{Kind: "close-all", Type: mode.String()}
	m.bus.TrackAll(req, m.coord.CloseAll(mode))
}

// submit applies the active modifiers and sends the command through the
// coordinator.
func (m *Model) submit(b *wincmd.Builder) {
	if m.skipAnimation {
		b.SkipAnimation()
	}
	if m.immediate {
		b.Immediate()
	}
	cmd := b.Build()
	req := command.Request{ID: cmd.ID, Kind: cmd.Kind.String(), Type: string(cmd.Type)}
	m.bus.Track(req, m.coord.Submit(cmd))
}
