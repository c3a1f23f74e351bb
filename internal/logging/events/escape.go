package events

import "github.com/atomicstack/layerstack/internal/logging"

type EscapeTracer struct{}

var Escape = EscapeTracer{}

func (EscapeTracer) Push(name string, depth int) {
	logging.Trace("escape.push", map[string]interface{}{"name": name, "depth": depth})
}

func (EscapeTracer) Remove(name string, depth int) {
	logging.Trace("escape.remove", map[string]interface{}{"name": name, "depth": depth})
}

func (EscapeTracer) Press(name string, consumed bool) {
	logging.Trace("escape.press", map[string]interface{}{"name": name, "consumed": consumed})
}

// Drop records a press that reached a group configured not to consume it.
func (EscapeTracer) Drop(name string) {
	logging.Trace("escape.drop", map[string]interface{}{"name": name})
}
