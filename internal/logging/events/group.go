package events

import "github.com/atomicstack/layerstack/internal/logging"

type GroupTracer struct{}

var Group = GroupTracer{}

func (GroupTracer) Register(group string, base int, background bool) {
	logging.Trace("group.register", map[string]interface{}{"group": group, "base": base, "background": background})
}

func (GroupTracer) TransitionStart(group, op, windowType string, hides, shows []string, sequential bool) {
	logging.Trace("group.transition.start", map[string]interface{}{
		"group":      group,
		"op":         op,
		"type":       windowType,
		"hide":       hides,
		"show":       shows,
		"sequential": sequential,
	})
}

func (GroupTracer) TransitionDone(group, op, windowType string, forced bool, err error) {
	payload := map[string]interface{}{"group": group, "op": op, "type": windowType, "forced": forced}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("group.transition.done", payload)
}

func (GroupTracer) Sorting(group string, order map[string]int) {
	logging.Trace("group.sorting", map[string]interface{}{"group": group, "order": order})
}

func (GroupTracer) Clear(group string, cancelled int) {
	logging.Trace("group.clear", map[string]interface{}{"group": group, "cancelled": cancelled})
}
