package events

import "github.com/atomicstack/layerstack/internal/logging"

type UITracer struct{}

type PickerTracer struct{}

var (
	UI     = UITracer{}
	Picker = PickerTracer{}
)

func (UITracer) Key(key string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) Inspector(visible bool) {
	logging.Trace("ui.inspector", map[string]interface{}{"visible": visible})
}

func (PickerTracer) Open(mode string) {
	logging.Trace("picker.open", map[string]interface{}{"mode": mode})
}

func (PickerTracer) Filter(mode, query string, matches int) {
	logging.Trace("picker.filter", map[string]interface{}{"mode": mode, "query": query, "matches": matches})
}

func (PickerTracer) Cursor(mode string, cursor int) {
	logging.Trace("picker.cursor", map[string]interface{}{"mode": mode, "cursor": cursor})
}

func (PickerTracer) Submit(mode, windowType string) {
	logging.Trace("picker.submit", map[string]interface{}{"mode": mode, "type": windowType})
}

func (PickerTracer) Cancel(mode string) {
	logging.Trace("picker.cancel", map[string]interface{}{"mode": mode})
}
