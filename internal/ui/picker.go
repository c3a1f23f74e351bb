package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	wincmd "github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/logging/events"
	uistate "github.com/atomicstack/layerstack/internal/ui/state"
	"github.com/atomicstack/layerstack/internal/window"
)

type pickMode int

const (
	pickOpen pickMode = iota
	pickToggle
	pickFocus
	pickLoad
	pickUnload
)

func (p pickMode) String() string {
	switch p {
	case pickToggle:
		return "toggle"
	case pickFocus:
		return "focus"
	case pickLoad:
		return "load"
	case pickUnload:
		return "unload"
	default:
		return "open"
	}
}

type picker struct {
	mode  pickMode
	list  *uistate.List
	input textinput.Model
}

func (m *Model) openPicker(mode pickMode) {
	ti := textinput.New()
	ti.Placeholder = "window type"
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	m.picker = &picker{
		mode:  mode,
		list:  uistate.NewList(mode.String(), m.pickerItems()),
		input: ti,
	}
	events.Picker.Open(mode.String())
}

// pickerItems lists every known type with a short note on where it is.
func (m *Model) pickerItems() []uistate.Item {
	if m.catalog == nil {
		return nil
	}
	types := m.catalog.Types()
	items := make([]uistate.Item, 0, len(types))
	for _, typ := range types {
		items = append(items, uistate.Item{
			ID:     string(typ),
			Label:  string(typ),
			Detail: m.describe(typ),
		})
	}
	return items
}

func (m *Model) describe(typ window.Type) string {
	for _, g := range m.coord.Groups() {
		if g.ContainsType(typ) {
			if top := g.Top(); top != nil && top.Type() == typ {
				return "focused in " + string(g.ID())
			}
			return "open in " + string(g.ID())
		}
	}
	if p := m.coord.Provider(); p != nil {
		if w := p.Get(typ); w != nil {
			return w.State().String()
		}
	}
	return "not loaded"
}

// refreshPicker keeps the notes current while the picker is open.
func (m *Model) refreshPicker() {
	m.picker.list.UpdateItems(m.pickerItems())
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	p := m.picker
	switch {
	case key.Matches(msg, m.keys.Cancel):
		events.Picker.Cancel(p.mode.String())
		m.picker = nil
		return nil
	case key.Matches(msg, m.keys.Submit):
		m.submitPicker()
		return nil
	case key.Matches(msg, m.keys.Up):
		if p.list.MoveCursorUp() {
			events.Picker.Cursor(p.mode.String(), p.list.Cursor)
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		if p.list.MoveCursorDown() {
			events.Picker.Cursor(p.mode.String(), p.list.Cursor)
		}
		return nil
	}
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if value := p.input.Value(); value != before {
		p.list.SetFilter(value)
		events.Picker.Filter(p.mode.String(), value, len(p.list.Items))
	}
	return cmd
}

func (m *Model) submitPicker() {
	p := m.picker
	item, ok := p.list.Current()
	if !ok {
		m.errMsg = "no matching window type"
		return
	}
	m.picker = nil
	typ := window.Type(item.ID)
	events.Picker.Submit(p.mode.String(), item.ID)
	m.submit(m.builderFor(p.mode, typ))
}

func (m *Model) builderFor(mode pickMode, typ window.Type) *wincmd.Builder {
	switch mode {
	case pickToggle:
		return m.coord.Toggle(typ)
	case pickFocus:
		return m.coord.Focus(typ)
	case pickLoad:
		return m.coord.Load(typ)
	case pickUnload:
		return m.coord.Unload(typ)
	default:
		return m.coord.Open(typ)
	}
}
