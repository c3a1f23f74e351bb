package events

import "github.com/atomicstack/layerstack/internal/logging"

type CommandTracer struct{}

var Command = CommandTracer{}

func (CommandTracer) Submit(id, kind, windowType, group string, priority int, immediate bool) {
	logging.Trace("command.submit", map[string]interface{}{
		"id":        id,
		"kind":      kind,
		"type":      windowType,
		"group":     group,
		"priority":  priority,
		"immediate": immediate,
	})
}

func (CommandTracer) Queue(id, kind, windowType, group string, depth int) {
	logging.Trace("command.queue", map[string]interface{}{
		"id":    id,
		"kind":  kind,
		"type":  windowType,
		"group": group,
		"depth": depth,
	})
}

func (CommandTracer) Execute(id, kind, windowType, group string) {
	logging.Trace("command.execute", map[string]interface{}{"id": id, "kind": kind, "type": windowType, "group": group})
}

func (CommandTracer) NoOp(id, kind, windowType, reason string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "kind": kind, "type": windowType, "reason": reason})
}

func (CommandTracer) Cancel(id, kind, windowType string) {
	logging.Trace("command.cancel", map[string]interface{}{"id": id, "kind": kind, "type": windowType})
}

func (CommandTracer) Flush(group string, pending int) {
	logging.Trace("command.flush", map[string]interface{}{"group": group, "pending": pending})
}

func (CommandTracer) Result(id, kind, windowType string, err error) {
	payload := map[string]interface{}{"id": id, "kind": kind, "type": windowType}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}
