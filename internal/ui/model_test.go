package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/layerstack/internal/coordinator"
	"github.com/atomicstack/layerstack/internal/group"
	"github.com/atomicstack/layerstack/internal/logging"
	"github.com/atomicstack/layerstack/internal/panel"
	"github.com/atomicstack/layerstack/internal/provider"
	"github.com/atomicstack/layerstack/internal/window"
)

func TestMain(m *testing.M) {
	logging.Configure(filepath.Join(os.TempDir(), "layerstack-ui-test.log"))
	os.Exit(m.Run())
}

const frame = 20 * time.Millisecond

func newTestHarness(t *testing.T) (*Harness, *coordinator.Coordinator) {
	t.Helper()
	reg := provider.NewRegistry()
	coord := coordinator.New(reg, nil, coordinator.WithFallbackGroup("menu"))
	for _, cfg := range []group.Config{
		{ID: "hud", Base: 0, Background: true},
		{ID: "menu", Base: 1000},
		{ID: "overlay", Base: 2000},
	} {
		if _, err := coord.RegisterGroup(cfg); err != nil {
			t.Fatalf("register %s: %v", cfg.ID, err)
		}
	}
	for _, spec := range []panel.Spec{
		{Type: "health", Title: "Health", Group: "hud", X: 1, Y: 1, Width: 16, Height: 3, Slide: 60 * time.Millisecond},
		{Type: "inventory", Title: "Inventory", Group: "menu", X: panel.Centered, Y: panel.Centered, Width: 30, Height: 8, Slide: 100 * time.Millisecond,
			Settings: window.Settings{Escape: true, CloseOnEscape: true}},
		{Type: "map", Title: "World Map", Group: "menu", X: 2, Y: 2, Width: 40, Height: 10, Slide: 100 * time.Millisecond,
			Settings: window.Settings{Escape: true, CloseOnEscape: true, HideWindowsBelow: true}},
	} {
		reg.RegisterIn(spec.Type, spec.Group, panel.Factory(spec))
	}
	model := NewModel(coord, reg, Options{Width: 80, Height: 24, ShowFooter: true})
	return NewHarness(model), coord
}

func stackOf(coord *coordinator.Coordinator, id window.GroupID) []window.Type {
	var out []window.Type
	for _, w := range coord.Group(id).Stack() {
		out = append(out, w.Type())
	}
	return out
}

func TestPickerOpensWindow(t *testing.T) {
	h, coord := newTestHarness(t)
	h.Keys("o")
	if h.Model().picker == nil {
		t.Fatalf("expected picker to open")
	}
	if view := h.View(); !strings.Contains(view, "open window") {
		t.Fatalf("expected picker prompt in view:\n%s", view)
	}
	h.Keys("inv", "enter")
	if h.Model().picker != nil {
		t.Fatalf("expected picker to close after submit")
	}
	h.Advance(400*time.Millisecond, frame)

	if got := stackOf(coord, "menu"); len(got) != 1 || got[0] != "inventory" {
		t.Fatalf("expected inventory open in menu, got %v", got)
	}
	if view := h.View(); !strings.Contains(view, "Inventory") {
		t.Fatalf("expected inventory panel drawn:\n%s", view)
	}
	if h.Model().bus.Pending() != 0 {
		t.Fatalf("expected command result collected")
	}
}

func TestPickerCancelKeepsRunning(t *testing.T) {
	h, _ := newTestHarness(t)
	h.Keys("t", "esc")
	if h.Model().picker != nil {
		t.Fatalf("expected picker closed")
	}
	if h.Model().Quitting() {
		t.Fatalf("cancelling the picker must not quit")
	}
}

func TestPickerNoMatchReportsError(t *testing.T) {
	h, _ := newTestHarness(t)
	h.Keys("o", "zzz")
	if view := h.View(); !strings.Contains(view, `no matches for "zzz"`) {
		t.Fatalf("expected empty picker message:\n%s", view)
	}
	h.Keys("enter")
	if h.Model().picker == nil {
		t.Fatalf("picker should stay open without a match")
	}
	if h.Model().errMsg == "" {
		t.Fatalf("expected an error message")
	}
}

func TestEscapeClosesFocusedThenQuits(t *testing.T) {
	h, coord := newTestHarness(t)
	h.Keys("o", "inventory", "enter")
	h.Advance(400*time.Millisecond, frame)

	h.Keys("esc")
	h.Advance(400*time.Millisecond, frame)
	if got := stackOf(coord, "menu"); len(got) != 0 {
		t.Fatalf("expected back-press to close inventory, got %v", got)
	}
	if h.Model().Quitting() {
		t.Fatalf("consumed back-press must not quit")
	}

	h.Keys("esc")
	if !h.Model().Quitting() {
		t.Fatalf("expected quit on unconsumed back-press with nothing open")
	}
	if h.View() != "" {
		t.Fatalf("expected empty view after quitting")
	}
}

func TestEscapeIgnoresBackgroundWindows(t *testing.T) {
	h, coord := newTestHarness(t)
	h.Keys("o", "health", "enter")
	h.Advance(200*time.Millisecond, frame)
	if got := stackOf(coord, "hud"); len(got) != 1 {
		t.Fatalf("expected health open in hud, got %v", got)
	}
	h.Keys("esc")
	if !h.Model().Quitting() {
		t.Fatalf("background windows should not hold the program open")
	}
}

func TestHideWindowsBelowDeactivatesLowerPanel(t *testing.T) {
	h, coord := newTestHarness(t)
	h.Keys("o", "inventory", "enter")
	h.Advance(400*time.Millisecond, frame)
	h.Keys("o", "map", "enter")
	h.Advance(600*time.Millisecond, frame)

	if got := stackOf(coord, "menu"); len(got) != 2 || got[1] != "map" {
		t.Fatalf("expected map above inventory, got %v", got)
	}
	inv := coord.Group("menu").Stack()[0]
	if inv.Active() {
		t.Fatalf("inventory should be hidden below map")
	}
	view := h.View()
	if strings.Contains(view, "Inventory") || !strings.Contains(view, "World Map") {
		t.Fatalf("expected only the map drawn:\n%s", view)
	}
}

func TestCloseTopAndCloseAll(t *testing.T) {
	h, coord := newTestHarness(t)
	for _, typ := range []string{"health", "inventory", "map"} {
		h.Keys("o", typ, "enter")
		h.Advance(400*time.Millisecond, frame)
	}
	h.Keys("x")
	h.Advance(400*time.Millisecond, frame)
	if got := stackOf(coord, "menu"); len(got) != 1 || got[0] != "inventory" {
		t.Fatalf("expected map closed by close-top, got %v", got)
	}

	h.Keys("c")
	h.Advance(time.Second, frame)
	if ws := coord.Windows(); len(ws) != 0 {
		t.Fatalf("expected every window closed, got %d", len(ws))
	}
	if h.Model().bus.Pending() != 0 {
		t.Fatalf("expected close-all result collected")
	}
}

func TestCloseAllImmediateSkipsAnimation(t *testing.T) {
	h, coord := newTestHarness(t)
	h.Keys("o", "inventory", "enter")
	h.Advance(400*time.Millisecond, frame)
	h.Keys("!")
	if ws := coord.Windows(); len(ws) != 0 {
		t.Fatalf("expected windows closed without ticking, got %d", len(ws))
	}
	if !strings.Contains(h.View(), "closed all windows") {
		t.Fatalf("expected status message:\n%s", h.View())
	}
}

func TestClearQueueCancelsQueuedCommands(t *testing.T) {
	h, coord := newTestHarness(t)
	h.Keys("o", "inventory", "enter")
	h.Advance(frame, frame)
	h.Keys("o", "map", "enter")
	if coord.Group("menu").QueueLen() != 1 {
		t.Fatalf("expected map queued behind the running transition")
	}
	h.Keys("X")
	if coord.Group("menu").QueueLen() != 0 {
		t.Fatalf("expected queue cleared")
	}
	h.Advance(400*time.Millisecond, frame)
	if got := stackOf(coord, "menu"); len(got) != 1 || got[0] != "inventory" {
		t.Fatalf("expected only inventory open, got %v", got)
	}
	if !strings.Contains(h.View(), "open(map) cancelled") {
		t.Fatalf("expected cancellation reported:\n%s", h.View())
	}
}

func TestModifiersAndFlush(t *testing.T) {
	h, coord := newTestHarness(t)
	h.Keys("a")
	if !strings.Contains(h.View(), "[skip animation]") {
		t.Fatalf("expected skip animation flag in status")
	}
	h.Keys("o", "inventory", "enter")
	h.Advance(frame, frame)
	if coord.Busy() {
		t.Fatalf("skip-animation open should finish within one frame")
	}
	h.Keys("a", "o", "map", "enter", "F")
	if coord.Busy() {
		t.Fatalf("flush should complete the running transition")
	}
	if got := stackOf(coord, "menu"); len(got) != 2 {
		t.Fatalf("expected both windows open, got %v", got)
	}
}

func TestInspectorListsGroups(t *testing.T) {
	h, _ := newTestHarness(t)
	h.Keys("o", "inventory", "enter")
	h.Advance(400*time.Millisecond, frame)
	h.Keys("i")
	view := h.View()
	for _, want := range []string{"group", "overlay", "inventory:", "escape: "} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in inspector view:\n%s", want, view)
		}
	}
}

func TestResizeIgnoredWhenFixed(t *testing.T) {
	h, _ := newTestHarness(t)
	h.Send(windowSize(120, 40))
	if h.Model().width != 80 || h.Model().height != 24 {
		t.Fatalf("fixed dimensions should not change, got %dx%d", h.Model().width, h.Model().height)
	}
	lines := strings.Split(h.View(), "\n")
	if len(lines) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(lines))
	}
}
