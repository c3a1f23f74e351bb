// Package group implements one layer of the window orchestrator: its stack,
// its command queue and its single active transition.
//
// A Manager is driven from one goroutine. Commands run immediately when the
// group is idle and are queued otherwise; queued commands are drained by Tick
// once the active transition has finished. Commands submitted from inside
// lifecycle callbacks are always queued.
package group

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/escape"
	"github.com/atomicstack/layerstack/internal/logging"
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/provider"
	"github.com/atomicstack/layerstack/internal/window"
)

// Stride separates the sorting orders of adjacent stack positions, leaving
// room for a window's own internal layers.
const Stride = 100

// Phase is what the group is currently doing.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseLoading waits for the provider to deliver the window of the
	// command being executed.
	PhaseLoading
	PhaseTransitioning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseTransitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// Config describes a group.
type Config struct {
	ID window.GroupID
	// Base is the sorting order of the group's background; windows sit at
	// Base + (position+1)*Stride.
	Base int
	// Background groups never register focused windows on the escape chain.
	Background bool
	// PassEscape makes the group's escape entry remove itself on a press
	// instead of handling it.
	PassEscape bool
}

// Manager owns one group's stack, queue and active transition.
type Manager struct {
	cfg      Config
	provider provider.Provider
	chain    *escape.Chain

	stack   []window.Window
	queue   command.Queue
	phase   Phase
	active  *transition
	loading *pendingLoad

	focused  window.Window
	focusReg *escape.Registration

	executing int
	flushing  bool
}

type pendingLoad struct {
	cmd    command.Command
	result *promise.Promise[window.Window]
}

// New returns an idle manager. A nil chain gets a private one.
func New(cfg Config, p provider.Provider, chain *escape.Chain) *Manager {
	if chain == nil {
		chain = escape.NewChain()
	}
	events.Group.Register(string(cfg.ID), cfg.Base, cfg.Background)
	return &Manager{cfg: cfg, provider: p, chain: chain}
}

func (m *Manager) ID() window.GroupID { return m.cfg.ID }

func (m *Manager) Config() Config { return m.cfg }

func (m *Manager) Phase() Phase { return m.phase }

// QueueLen returns the number of commands waiting for the group to go idle.
func (m *Manager) QueueLen() int { return m.queue.Len() }

// Pending lists queued commands in the order they will run.
func (m *Manager) Pending() []command.Command { return m.queue.Pending() }

// Busy reports whether the group has an active transition, a pending load or
// queued commands.
func (m *Manager) Busy() bool {
	return m.phase != PhaseIdle || m.queue.Len() > 0
}

// Stack returns the open windows from bottom to top.
func (m *Manager) Stack() []window.Window {
	out := make([]window.Window, len(m.stack))
	copy(out, m.stack)
	return out
}

// Top returns the topmost window, or nil for an empty stack.
func (m *Manager) Top() window.Window {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Contains reports whether w is open in this group.
func (m *Manager) Contains(w window.Window) bool {
	return m.indexOf(w) >= 0
}

// ContainsType reports whether a window of typ is open in this group.
func (m *Manager) ContainsType(typ window.Type) bool {
	for _, w := range m.stack {
		if w.Type() == typ {
			return true
		}
	}
	return false
}

// Submit runs cmd now when the group is idle, or queues it. Immediate
// commands first force the active transition (and any pending load) to
// complete. The returned promise resolves with the window acted on; it
// resolves with nil when the window type is unknown.
func (m *Manager) Submit(cmd command.Command) *promise.Promise[window.Window] {
	result := promise.New[window.Window]()
	events.Command.Submit(cmd.ID, cmd.Kind.String(), string(cmd.Target()), string(m.cfg.ID), cmd.Priority, cmd.Immediate)

	switch {
	case m.executing > 0:
		m.enqueue(cmd, result)
	case cmd.Immediate:
		m.completeActive()
		m.run(cmd, result)
	case m.phase == PhaseIdle && m.queue.Len() == 0:
		m.run(cmd, result)
	default:
		m.enqueue(cmd, result)
	}
	return result
}

// Tick advances the active transition by dt and, once the group is idle,
// runs queued commands until one of them starts a transition or a load.
func (m *Manager) Tick(dt time.Duration) {
	if m.active != nil {
		m.active.handle.Advance(dt)
	}
	m.drain()
}

// Flush force-completes the active transition and every queued command.
// Callbacks fire exactly as they would after natural completion.
func (m *Manager) Flush() {
	if m.executing > 0 {
		return
	}
	events.Command.Flush(string(m.cfg.ID), m.queue.Len())
	m.flushing = true
	defer func() { m.flushing = false }()

	m.completeActive()
	for {
		entry, ok := m.queue.Pop()
		if !ok {
			return
		}
		m.run(entry.Command, entry.Result)
		m.completeActive()
	}
}

// Clear rejects every queued command with command.ErrCancelled. The active
// transition is left running.
func (m *Manager) Clear() int {
	entries := m.queue.Drain()
	for _, entry := range entries {
		cmd := entry.Command
		events.Command.Cancel(cmd.ID, cmd.Kind.String(), string(cmd.Target()))
		if entry.Result != nil {
			entry.Result.Reject(fmt.Errorf("%s %s: %w", m.cfg.ID, cmd, command.ErrCancelled))
		}
	}
	events.Group.Clear(string(m.cfg.ID), len(entries))
	return len(entries)
}

func (m *Manager) enqueue(cmd command.Command, result *promise.Promise[window.Window]) {
	m.queue.Push(cmd, result)
	events.Command.Queue(cmd.ID, cmd.Kind.String(), string(cmd.Target()), string(m.cfg.ID), m.queue.Len())
}

func (m *Manager) drain() {
	for m.phase == PhaseIdle && m.executing == 0 {
		entry, ok := m.queue.Pop()
		if !ok {
			return
		}
		m.run(entry.Command, entry.Result)
	}
}

// completeActive brings the group back to idle synchronously. A forced load
// may itself start a transition, which is completed in turn.
func (m *Manager) completeActive() {
	for m.phase != PhaseIdle {
		switch {
		case m.loading != nil:
			m.forceLoad()
		case m.active != nil:
			m.active.handle.Complete()
		default:
			m.phase = PhaseIdle
		}
	}
}

func (m *Manager) forceLoad() {
	pl := m.loading
	w, err := m.provider.LoadImmediate(pl.cmd.Type)
	// A provider that settles the pending promise has already resumed the
	// command through loaded.
	m.loaded(pl, w, err)
}

// run resolves the command's window and executes it. Windows that are not
// loaded yet put the group into the loading phase.
func (m *Manager) run(cmd command.Command, result *promise.Promise[window.Window]) {
	events.Command.Execute(cmd.ID, cmd.Kind.String(), string(cmd.Target()), string(m.cfg.ID))
	if cmd.Kind == command.KindCloseAll {
		m.closeAll(cmd, result)
		return
	}

	w := cmd.Instance
	if w == nil && m.provider != nil {
		w = m.provider.Get(cmd.Type)
	}
	if w != nil {
		m.execute(cmd, w, result)
		return
	}

	switch cmd.Kind {
	case command.KindClose, command.KindFocus, command.KindUnload:
		m.noop(cmd, result, nil, "not loaded")
		return
	}
	if m.provider == nil {
		m.noop(cmd, result, nil, "no provider")
		return
	}

	pl := &pendingLoad{cmd: cmd, result: result}
	m.loading = pl
	m.phase = PhaseLoading
	m.provider.Load(cmd.Type).Then(func(w window.Window, err error) {
		m.loaded(pl, w, err)
	})
}

func (m *Manager) loaded(pl *pendingLoad, w window.Window, err error) {
	if m.loading != pl {
		return
	}
	m.loading = nil
	m.phase = PhaseIdle

	switch {
	case errors.Is(err, provider.ErrUnknownType):
		m.noop(pl.cmd, pl.result, nil, "unknown type")
	case err != nil:
		logging.Error(err)
		events.Command.Result(pl.cmd.ID, pl.cmd.Kind.String(), string(pl.cmd.Type), err)
		pl.result.Reject(err)
	case w == nil:
		m.noop(pl.cmd, pl.result, nil, "unknown type")
	default:
		m.execute(pl.cmd, w, pl.result)
	}
}

func (m *Manager) noop(cmd command.Command, result *promise.Promise[window.Window], w window.Window, reason string) {
	events.Command.NoOp(cmd.ID, cmd.Kind.String(), string(cmd.Target()), reason)
	result.Resolve(w)
}

func (m *Manager) resolve(cmd command.Command, result *promise.Promise[window.Window], w window.Window, err error) {
	events.Command.Result(cmd.ID, cmd.Kind.String(), string(cmd.Target()), err)
	result.Settle(w, err)
}

// emit runs lifecycle listeners with re-entrant submission guarded.
func (m *Manager) emit(ev window.Event, w window.Window) {
	if w == nil {
		return
	}
	group, typ := string(m.cfg.ID), string(w.Type())
	switch ev {
	case window.EventOpening:
		events.Window.Opening(group, typ)
	case window.EventOpened:
		events.Window.Opened(group, typ)
	case window.EventClosing:
		events.Window.Closing(group, typ)
	case window.EventClosed:
		events.Window.Closed(group, typ)
	case window.EventFocusGained:
		events.Window.FocusGained(group, typ)
	case window.EventFocusLost:
		events.Window.FocusLost(group, typ)
	}
	m.executing++
	defer func() { m.executing-- }()
	w.Listeners().Emit(ev, w)
}

func (m *Manager) indexOf(w window.Window) int {
	for i, candidate := range m.stack {
		if candidate == w {
			return i
		}
	}
	return -1
}
