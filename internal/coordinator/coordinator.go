// Package coordinator owns every group of the orchestrator and routes
// commands to them.
//
// A command goes to its explicit group when it names one, else to the group
// currently holding its window, else to the window's default group, else to
// the fallback group. A window that is not loaded yet is loaded by the group
// its provider declares for it; when no group is declared the command is held
// as a pending route until the provider delivers.
package coordinator

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/escape"
	"github.com/atomicstack/layerstack/internal/group"
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/provider"
	"github.com/atomicstack/layerstack/internal/window"
)

var (
	ErrUnknownGroup   = errors.New("unknown group")
	ErrDuplicateGroup = errors.New("group already registered")
)

// Mode selects how CloseAll walks the open windows.
type Mode int

const (
	// Sequential closes one window at a time, topmost first, waiting for
	// each hide animation.
	Sequential Mode = iota
	// Parallel hides every open window at once.
	Parallel
)

func (m Mode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "sequential"
}

// Poller is implemented by providers that complete loads on the loop
// goroutine.
type Poller interface {
	Poll() int
}

// GroupHinter is implemented by providers that know a window type's default
// group before the window is loaded.
type GroupHinter interface {
	DefaultGroup(typ window.Type) (window.GroupID, bool)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFallbackGroup routes commands whose window declares no known group.
func WithFallbackGroup(id window.GroupID) Option {
	return func(c *Coordinator) { c.fallback = id }
}

// Coordinator is the top-level entry point of the orchestrator.
type Coordinator struct {
	provider provider.Provider
	chain    *escape.Chain
	groups   map[window.GroupID]*group.Manager
	order    []window.GroupID
	fallback window.GroupID
	routes   []*route
}

// route is a command waiting for its window to load before it can be
// assigned to a group.
type route struct {
	cmd       command.Command
	result    *promise.Promise[window.Window]
	cancelled bool
}

// New returns a coordinator without groups. A nil chain gets a fresh one.
func New(p provider.Provider, chain *escape.Chain, opts ...Option) *Coordinator {
	if chain == nil {
		chain = escape.NewChain()
	}
	c := &Coordinator{
		provider: p,
		chain:    chain,
		groups:   make(map[window.GroupID]*group.Manager),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterGroup adds a group. The first registered group is the fallback
// unless WithFallbackGroup named another.
func (c *Coordinator) RegisterGroup(cfg group.Config) (*group.Manager, error) {
	if _, ok := c.groups[cfg.ID]; ok {
		return nil, fmt.Errorf("register %s: %w", cfg.ID, ErrDuplicateGroup)
	}
	m := group.New(cfg, c.provider, c.chain)
	c.groups[cfg.ID] = m
	c.order = append(c.order, cfg.ID)
	if c.fallback == "" {
		c.fallback = cfg.ID
	}
	return m, nil
}

// Group returns the manager for id, or nil.
func (c *Coordinator) Group(id window.GroupID) *group.Manager {
	return c.groups[id]
}

// Groups returns every manager in registration order.
func (c *Coordinator) Groups() []*group.Manager {
	out := make([]*group.Manager, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.groups[id])
	}
	return out
}

// Chain returns the shared escape chain.
func (c *Coordinator) Chain() *escape.Chain { return c.chain }

// Provider returns the window provider.
func (c *Coordinator) Provider() provider.Provider { return c.provider }

func (c *Coordinator) Open(typ window.Type) *command.Builder {
	return command.NewBuilder(c, command.KindOpen, typ)
}

func (c *Coordinator) Close(typ window.Type) *command.Builder {
	return command.NewBuilder(c, command.KindClose, typ)
}

func (c *Coordinator) Toggle(typ window.Type) *command.Builder {
	return command.NewBuilder(c, command.KindToggle, typ)
}

func (c *Coordinator) Focus(typ window.Type) *command.Builder {
	return command.NewBuilder(c, command.KindFocus, typ)
}

func (c *Coordinator) Load(typ window.Type) *command.Builder {
	return command.NewBuilder(c, command.KindLoad, typ)
}

func (c *Coordinator) Unload(typ window.Type) *command.Builder {
	return command.NewBuilder(c, command.KindUnload, typ)
}

// Submit routes cmd to its group. It implements command.Executor.
func (c *Coordinator) Submit(cmd command.Command) *promise.Promise[window.Window] {
	if cmd.Kind == command.KindCloseAll {
		g, err := c.resolveGroup(cmd.Group, nil)
		if err != nil {
			return promise.Rejected[window.Window](err)
		}
		return g.Submit(cmd)
	}

	if cmd.Group != "" {
		g, err := c.resolveGroup(cmd.Group, nil)
		if err != nil {
			return promise.Rejected[window.Window](err)
		}
		return g.Submit(cmd)
	}

	if g := c.holder(cmd.Target()); g != nil {
		return g.Submit(cmd)
	}

	w := cmd.Instance
	if w == nil && c.provider != nil {
		w = c.provider.Get(cmd.Type)
	}
	if w != nil {
		return c.dispatch(cmd.WithInstance(w))
	}

	switch cmd.Kind {
	case command.KindClose, command.KindFocus, command.KindUnload:
		events.Command.NoOp(cmd.ID, cmd.Kind.String(), string(cmd.Type), "not loaded")
		return promise.Resolved[window.Window](nil)
	}
	if c.provider == nil {
		return promise.Resolved[window.Window](nil)
	}

	if cmd.Immediate {
		w, err := c.provider.LoadImmediate(cmd.Type)
		return c.afterLoad(cmd, w, err)
	}

	// A known group loads the window itself, holding back its later
	// commands until the load settles.
	if g := c.declaredGroup(cmd.Type); g != nil {
		return g.Submit(cmd)
	}

	r := &route{cmd: cmd, result: promise.New[window.Window]()}
	c.routes = append(c.routes, r)
	c.provider.Load(cmd.Type).Then(func(w window.Window, err error) {
		if r.cancelled {
			return
		}
		c.dropRoute(r)
		c.afterLoad(cmd, w, err).Forward(r.result)
	})
	return r.result
}

func (c *Coordinator) afterLoad(cmd command.Command, w window.Window, err error) *promise.Promise[window.Window] {
	switch {
	case errors.Is(err, provider.ErrUnknownType):
		events.Command.NoOp(cmd.ID, cmd.Kind.String(), string(cmd.Type), "unknown type")
		return promise.Resolved[window.Window](nil)
	case err != nil:
		events.Command.Result(cmd.ID, cmd.Kind.String(), string(cmd.Type), err)
		return promise.Rejected[window.Window](err)
	case w == nil:
		return promise.Resolved[window.Window](nil)
	}
	return c.dispatch(cmd.WithInstance(w))
}

func (c *Coordinator) dispatch(cmd command.Command) *promise.Promise[window.Window] {
	g, err := c.resolveGroup("", cmd.Instance)
	if err != nil {
		return promise.Rejected[window.Window](err)
	}
	return g.Submit(cmd)
}

// resolveGroup picks explicit, then the window's default group, then the
// fallback.
func (c *Coordinator) resolveGroup(explicit window.GroupID, w window.Window) (*group.Manager, error) {
	if explicit != "" {
		if g, ok := c.groups[explicit]; ok {
			return g, nil
		}
		return nil, fmt.Errorf("route to %s: %w", explicit, ErrUnknownGroup)
	}
	if w != nil {
		if g := c.holder(w.Type()); g != nil {
			return g, nil
		}
		if g, ok := c.groups[w.DefaultGroup()]; ok {
			return g, nil
		}
	}
	if g, ok := c.groups[c.fallback]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("route to fallback %q: %w", c.fallback, ErrUnknownGroup)
}

// declaredGroup returns the group the provider declares for typ, falling back
// like resolveGroup when the declared group is not registered. It returns nil
// when the provider cannot tell.
func (c *Coordinator) declaredGroup(typ window.Type) *group.Manager {
	hinter, ok := c.provider.(GroupHinter)
	if !ok {
		return nil
	}
	id, ok := hinter.DefaultGroup(typ)
	if !ok {
		return nil
	}
	if g, ok := c.groups[id]; ok {
		return g
	}
	return c.groups[c.fallback]
}

// holder returns the group whose stack currently contains typ.
func (c *Coordinator) holder(typ window.Type) *group.Manager {
	if typ == "" {
		return nil
	}
	for _, id := range c.order {
		if g := c.groups[id]; g.ContainsType(typ) {
			return g
		}
	}
	return nil
}

func (c *Coordinator) dropRoute(r *route) {
	for i, candidate := range c.routes {
		if candidate == r {
			c.routes = append(c.routes[:i], c.routes[i+1:]...)
			return
		}
	}
}

// Tick completes finished loads and advances every group by dt.
func (c *Coordinator) Tick(dt time.Duration) {
	if p, ok := c.provider.(Poller); ok {
		p.Poll()
	}
	for _, id := range c.order {
		c.groups[id].Tick(dt)
	}
}

// Escape delivers one back-press to the escape chain.
func (c *Coordinator) Escape() bool {
	return c.chain.Press()
}

// Busy reports whether any group or pending route still has work.
func (c *Coordinator) Busy() bool {
	if len(c.routes) > 0 {
		return true
	}
	for _, id := range c.order {
		if c.groups[id].Busy() {
			return true
		}
	}
	return false
}

// PendingRoutes returns the number of commands waiting for a window load.
func (c *Coordinator) PendingRoutes() int {
	return len(c.routes)
}

// FlushCommandQueue loads every pending route synchronously, then
// force-completes the active transition and queue of every group.
func (c *Coordinator) FlushCommandQueue() {
	for len(c.routes) > 0 {
		r := c.routes[0]
		w, err := c.provider.LoadImmediate(r.cmd.Type)
		if len(c.routes) > 0 && c.routes[0] == r {
			// The provider did not settle the pending load; finish the route
			// by hand.
			c.dropRoute(r)
			r.cancelled = true
			c.afterLoad(r.cmd, w, err).Forward(r.result)
		}
	}
	for _, id := range c.order {
		c.groups[id].Flush()
	}
}

// ClearCommandQueue rejects every pending route and queued command with
// command.ErrCancelled. Active transitions keep running.
func (c *Coordinator) ClearCommandQueue() int {
	routes := c.routes
	c.routes = nil
	for _, r := range routes {
		r.cancelled = true
		events.Command.Cancel(r.cmd.ID, r.cmd.Kind.String(), string(r.cmd.Type))
		r.result.Reject(fmt.Errorf("%s: %w", r.cmd, command.ErrCancelled))
	}
	n := len(routes)
	for _, id := range c.order {
		n += c.groups[id].Clear()
	}
	return n
}

// CloseAll closes every open window in every group.
func (c *Coordinator) CloseAll(mode Mode) *promise.Promise[struct{}] {
	if mode == Parallel {
		var parts []*promise.Promise[window.Window]
		for _, id := range c.order {
			parts = append(parts, c.groups[id].Submit(command.CloseAll(id).Build()))
		}
		return promise.All(parts...)
	}
	out := promise.New[struct{}]()
	c.closeNext(out)
	return out
}

// CloseAllImmediate closes every open window without animating. Active
// transitions are completed first.
func (c *Coordinator) CloseAllImmediate() {
	for _, id := range c.order {
		c.groups[id].Submit(command.CloseAll(id).Immediate().SkipAnimation().Build())
	}
}

// closeNext closes the topmost window of the highest group and continues
// from the close command's completion.
func (c *Coordinator) closeNext(out *promise.Promise[struct{}]) {
	g := c.topGroup()
	if g == nil {
		out.Resolve(struct{}{})
		return
	}
	top := g.Top()
	cmd := command.Close(top.Type()).WithInstance(top).InGroup(g.ID()).Build()
	g.Submit(cmd).Then(func(_ window.Window, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		c.closeNext(out)
	})
}

// Top returns the topmost window of the highest non-empty group, or nil.
func (c *Coordinator) Top() window.Window {
	if g := c.topGroup(); g != nil {
		return g.Top()
	}
	return nil
}

// topGroup returns the non-empty group with the highest sorting base.
func (c *Coordinator) topGroup() *group.Manager {
	var best *group.Manager
	for _, id := range c.order {
		g := c.groups[id]
		if g.Top() == nil {
			continue
		}
		if best == nil || g.Config().Base > best.Config().Base {
			best = g
		}
	}
	return best
}

// Windows returns the open windows of every group, bottom group first.
func (c *Coordinator) Windows() []window.Window {
	var out []window.Window
	for _, id := range c.order {
		out = append(out, c.groups[id].Stack()...)
	}
	return out
}
