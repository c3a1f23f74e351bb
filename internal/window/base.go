package window

import "github.com/atomicstack/layerstack/internal/anim"

// Base carries the bookkeeping every window needs. Concrete windows embed it
// and usually override Show and Hide.
type Base struct {
	typ       Type
	title     string
	group     GroupID
	settings  Settings
	state     State
	order     int
	active    bool
	listeners Listeners
}

// NewBase returns a closed, inactive window base.
func NewBase(typ Type, title string, group GroupID, settings Settings) *Base {
	if title == "" {
		title = string(typ)
	}
	return &Base{typ: typ, title: title, group: group, settings: settings}
}

func (b *Base) Type() Type { return b.typ }
func (b *Base) Title() string { return b.title }
func (b *Base) DefaultGroup() GroupID { return b.group }
func (b *Base) Settings() Settings { return b.settings }
func (b *Base) State() State { return b.state }
func (b *Base) SetState(s State) { b.state = s }
func (b *Base) SortingOrder() int { return b.order }
func (b *Base) SetSortingOrder(o int) { b.order = o }
func (b *Base) Active() bool { return b.active }
func (b *Base) SetActive(active bool) { b.active = active }
func (b *Base) Listeners() *Listeners { return &b.listeners }
func (b *Base) Create() error { return nil }
func (b *Base) Dispose() { b.state = StateUnloaded }
func (b *Base) Show(TransitionContext) anim.Handle { return anim.None() }
func (b *Base) Hide(TransitionContext) anim.Handle { return anim.None() }
