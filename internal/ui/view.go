package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/layerstack/internal/format/table"
	"github.com/atomicstack/layerstack/internal/theme"
	"github.com/atomicstack/layerstack/internal/window"
)

const pickerWidth = 40

// renderable is implemented by windows that know how to draw themselves.
type renderable interface {
	window.Window
	Render(styles *theme.Styles, focused bool) string
	Position(screenW, screenH int) (int, int)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	rows := m.height - 1
	if m.showFooter {
		rows--
	}
	rows = max(rows, 0)

	c := newCanvas(m.width, rows)
	m.drawWindows(c, rows)
	if m.showInspector {
		if block := m.viewInspector(); block != "" {
			c.draw(block, max(m.width-lipgloss.Width(block), 0), 0)
		}
	}
	if m.picker != nil {
		block := m.viewPicker(rows)
		x := (m.width - lipgloss.Width(block)) / 2
		y := (rows - lipgloss.Height(block)) / 2
		c.draw(block, x, y)
	}

	lines := []string{c.String(), m.viewStatus()}
	if m.showFooter {
		lines = append(lines, styles.Footer.Render(ansi.Truncate(helpLine(m.keys.footer()), m.width, "…")))
	}
	return strings.Join(lines, "\n")
}

// drawWindows paints every active window, lowest sorting order first.
func (m *Model) drawWindows(c *canvas, rows int) {
	var visible []renderable
	for _, w := range m.coord.Windows() {
		if r, ok := w.(renderable); ok && w.Active() {
			visible = append(visible, r)
		}
	}
	if len(visible) == 0 {
		hint := "no windows open, press o to open one"
		c.draw(styles.Backdrop.Render(hint), (m.width-len(hint))/2, rows/2)
		return
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].SortingOrder() < visible[j].SortingOrder()
	})
	top := m.coord.Top()
	for _, w := range visible {
		x, y := w.Position(m.width, rows)
		c.draw(w.Render(styles, w == top), x, y)
	}
}

func (m *Model) viewPicker(rows int) string {
	p := m.picker
	box := *styles.PanelFocused
	inner := max(min(pickerWidth, m.width-box.GetHorizontalFrameSize()), 8)
	p.input.Width = max(inner-lipgloss.Width(p.input.Prompt)-1, 1)

	maxItems := max(rows-box.GetVerticalFrameSize()-2, 1)
	p.list.EnsureCursorVisible(maxItems)

	lines := []string{
		styles.PickerPrompt.Render(p.mode.String() + " window"),
		p.input.View(),
	}
	if len(p.list.Items) == 0 {
		lines = append(lines, styles.PickerEmpty.Render(fmt.Sprintf("no matches for %q", p.list.Filter)))
	}
	for i, item := range p.list.Visible(maxItems) {
		text := item.Label
		if item.Detail != "" {
			text = fmt.Sprintf("%-12s %s", item.Label, item.Detail)
		}
		text = padRight(ansi.Truncate(text, inner, "…"), inner)
		style := styles.PickerItem
		if p.list.ViewportOffset+i == p.list.Cursor {
			style = styles.PickerCursor
		}
		lines = append(lines, style.Render(text))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return box.Width(inner + box.GetHorizontalPadding()).Render(content)
}

// viewInspector tabulates every group: its phase, queue depth and stack in
// sorting order.
func (m *Model) viewInspector() string {
	rows := [][]string{{"group", "base", "phase", "queue", "stack"}}
	for _, g := range m.coord.Groups() {
		var stack []string
		for _, w := range g.Stack() {
			entry := fmt.Sprintf("%s:%d", w.Type(), w.SortingOrder())
			if !w.Active() {
				entry += "(hidden)"
			}
			stack = append(stack, entry)
		}
		rows = append(rows, []string{
			string(g.ID()),
			fmt.Sprint(g.Config().Base),
			g.Phase().String(),
			fmt.Sprint(g.QueueLen()),
			strings.Join(stack, " "),
		})
	}
	formatted := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft})
	lines := make([]string, 0, len(formatted)+1)
	for i, line := range formatted {
		if i == 0 {
			lines = append(lines, styles.InspectorHead.Render(line))
			continue
		}
		lines = append(lines, styles.InspectorRow.Render(line))
	}
	chain := "escape: " + strings.Join(m.coord.Chain().Names(), " > ")
	lines = append(lines, styles.Info.Render(chain))
	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) viewStatus() string {
	var parts []string
	if m.coord.Busy() {
		parts = append(parts, styles.StatusBusy.Render(fmt.Sprintf("busy: %d pending load(s), %d awaiting", m.coord.PendingRoutes(), m.bus.Pending())))
	} else {
		parts = append(parts, styles.Status.Render("idle"))
	}
	if m.skipAnimation {
		parts = append(parts, styles.Status.Render("[skip animation]"))
	}
	if m.immediate {
		parts = append(parts, styles.Status.Render("[immediate]"))
	}
	switch {
	case m.errMsg != "":
		parts = append(parts, styles.Error.Render(m.errMsg))
	case m.infoMsg != "":
		parts = append(parts, styles.Info.Render(m.infoMsg))
	}
	return ansi.Truncate(strings.Join(parts, "  "), m.width, "…")
}
