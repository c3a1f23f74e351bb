package command

import (
	"errors"

	"github.com/google/uuid"

	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/window"
)

// ErrNoExecutor is returned when a builder without an executor is executed.
var ErrNoExecutor = errors.New("command has no executor")

// Executor accepts built commands. The coordinator is the usual executor.
type Executor interface {
	Submit(Command) *promise.Promise[window.Window]
}

// Builder assembles a Command with fluent modifiers.
type Builder struct {
	exec Executor
	cmd  Command
}

// NewBuilder starts a command of kind against typ, submitted to exec.
func NewBuilder(exec Executor, kind Kind, typ window.Type) *Builder {
	return &Builder{exec: exec, cmd: Command{Kind: kind, Type: typ}}
}

func Open(typ window.Type) *Builder { return NewBuilder(nil, KindOpen, typ) }
func Close(typ window.Type) *Builder { return NewBuilder(nil, KindClose, typ) }
func Toggle(typ window.Type) *Builder { return NewBuilder(nil, KindToggle, typ) }
func Focus(typ window.Type) *Builder { return NewBuilder(nil, KindFocus, typ) }
func Load(typ window.Type) *Builder { return NewBuilder(nil, KindLoad, typ) }
func Unload(typ window.Type) *Builder { return NewBuilder(nil, KindUnload, typ) }

// CloseAll starts a command closing every window of group.
func CloseAll(group window.GroupID) *Builder {
	b := NewBuilder(nil, KindCloseAll, "")
	b.cmd.Group = group
	return b
}

// Via sets the executor used by Execute and ExecuteAsync.
func (b *Builder) Via(exec Executor) *Builder {
	b.exec = exec
	return b
}

func (b *Builder) InGroup(group window.GroupID) *Builder {
	b.cmd.Group = group
	return b
}

func (b *Builder) WithPriority(priority int) *Builder {
	b.cmd.Priority = priority
	return b
}

// Immediate forces any in-flight transition of the target group to complete
// before the command runs.
func (b *Builder) Immediate() *Builder {
	b.cmd.Immediate = true
	return b
}

func (b *Builder) SkipAnimation() *Builder {
	b.cmd.SkipAnimation = true
	return b
}

// Above asks for the window to render above any of types already open.
func (b *Builder) Above(types ...window.Type) *Builder {
	b.cmd.Above = append(b.cmd.Above, types...)
	return b
}

// Below asks for the window to render below any of types already open.
func (b *Builder) Below(types ...window.Type) *Builder {
	b.cmd.Below = append(b.cmd.Below, types...)
	return b
}

// WithInstance binds an already constructed window.
func (b *Builder) WithInstance(w window.Window) *Builder {
	b.cmd.Instance = w
	if w != nil && b.cmd.Type == "" {
		b.cmd.Type = w.Type()
	}
	return b
}

// Build snapshots the builder into a Command with a fresh ID. Later modifier
// calls never affect a built command.
func (b *Builder) Build() Command {
	cmd := b.cmd.clone()
	cmd.ID = uuid.NewString()
	return cmd
}

// Execute submits the command without waiting for its result.
func (b *Builder) Execute() {
	b.ExecuteAsync()
}

// ExecuteAsync submits the command and returns its completion promise. The
// promise resolves with the window acted on, or nil when the type is unknown.
func (b *Builder) ExecuteAsync() *promise.Promise[window.Window] {
	if b.exec == nil {
		return promise.Rejected[window.Window](ErrNoExecutor)
	}
	return b.exec.Submit(b.Build())
}
