package events

import "github.com/atomicstack/layerstack/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) lifecycle(event, group, windowType string) {
	logging.Trace("window."+event, map[string]interface{}{"group": group, "type": windowType})
}

func (w WindowTracer) Opening(group, windowType string) { w.lifecycle("opening", group, windowType) }
func (w WindowTracer) Opened(group, windowType string) { w.lifecycle("opened", group, windowType) }
func (w WindowTracer) Closing(group, windowType string) { w.lifecycle("closing", group, windowType) }
func (w WindowTracer) Closed(group, windowType string) { w.lifecycle("closed", group, windowType) }
func (w WindowTracer) FocusLost(group, windowType string) { w.lifecycle("focus-lost", group, windowType) }

func (w WindowTracer) FocusGained(group, windowType string) {
	w.lifecycle("focus-gained", group, windowType)
}

func (WindowTracer) Loaded(windowType string, async bool) {
	logging.Trace("window.loaded", map[string]interface{}{"type": windowType, "async": async})
}

func (WindowTracer) LoadFailed(windowType string, err error) {
	logging.Trace("window.load.failed", map[string]interface{}{"type": windowType, "error": err.Error()})
}

func (WindowTracer) Unloaded(windowType string) {
	logging.Trace("window.unloaded", map[string]interface{}{"type": windowType})
}
