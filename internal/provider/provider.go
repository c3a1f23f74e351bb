// Package provider resolves window types to loaded window instances.
//
// The Registry caches one instance per type. Asynchronous loads run their
// factory on the backend loader and are completed on the loop goroutine by
// Poll, which also calls Create on the new window and settles every promise
// waiting for it.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/layerstack/internal/backend"
	"github.com/atomicstack/layerstack/internal/logging"
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/window"
)

// ErrUnknownType is returned for window types without a registered factory.
var ErrUnknownType = errors.New("unknown window type")

// Provider is the loading capability the orchestrator consumes.
type Provider interface {
	// Get returns the loaded instance of typ, or nil without loading.
	Get(typ window.Type) window.Window
	// Load resolves typ, loading it if needed. Loading an already loaded type
	// returns the cached instance.
	Load(typ window.Type) *promise.Promise[window.Window]
	// LoadImmediate resolves typ synchronously.
	LoadImmediate(typ window.Type) (window.Window, error)
	// Unload disposes and forgets the instance of typ.
	Unload(typ window.Type)
}

// Factory constructs a window. It may run on a worker goroutine and must not
// touch orchestrator state.
type Factory func(ctx context.Context, typ window.Type) (window.Window, error)

// Option configures a Registry.
type Option func(*Registry)

// WithLoader runs Load through l instead of synchronously.
func WithLoader(l *backend.Loader) Option {
	return func(r *Registry) { r.loader = l }
}

// Registry is the default Provider.
type Registry struct {
	factories map[window.Type]Factory
	groups    map[window.Type]window.GroupID
	order     []window.Type
	loaded    map[window.Type]window.Window
	pending   map[window.Type]*promise.Promise[window.Window]
	loader    *backend.Loader
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[window.Type]Factory),
		groups:    make(map[window.Type]window.GroupID),
		loaded:    make(map[window.Type]window.Window),
		pending:   make(map[window.Type]*promise.Promise[window.Window]),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds typ to f, replacing any earlier factory.
func (r *Registry) Register(typ window.Type, f Factory) {
	if _, ok := r.factories[typ]; !ok {
		r.order = append(r.order, typ)
	}
	r.factories[typ] = f
	delete(r.groups, typ)
}

// RegisterIn binds typ to f and records the group its windows declare, so
// commands can be routed before the window is loaded.
func (r *Registry) RegisterIn(typ window.Type, group window.GroupID, f Factory) {
	r.Register(typ, f)
	if group != "" {
		r.groups[typ] = group
	}
}

// DefaultGroup returns the group declared for typ, preferring the loaded
// instance over the registration.
func (r *Registry) DefaultGroup(typ window.Type) (window.GroupID, bool) {
	if w, ok := r.loaded[typ]; ok && w.DefaultGroup() != "" {
		return w.DefaultGroup(), true
	}
	g, ok := r.groups[typ]
	return g, ok
}

// Types lists registered types in registration order.
func (r *Registry) Types() []window.Type {
	out := make([]window.Type, len(r.order))
	copy(out, r.order)
	return out
}

// Known reports whether typ has a factory.
func (r *Registry) Known(typ window.Type) bool {
	_, ok := r.factories[typ]
	return ok
}

func (r *Registry) Get(typ window.Type) window.Window {
	return r.loaded[typ]
}

// Loaded lists the cached instances in registration order.
func (r *Registry) Loaded() []window.Window {
	var out []window.Window
	for _, typ := range r.order {
		if w, ok := r.loaded[typ]; ok {
			out = append(out, w)
		}
	}
	return out
}

func (r *Registry) Load(typ window.Type) *promise.Promise[window.Window] {
	if w, ok := r.loaded[typ]; ok {
		return promise.Resolved(w)
	}
	if p, ok := r.pending[typ]; ok {
		return p
	}
	factory, ok := r.factories[typ]
	if !ok {
		return promise.Rejected[window.Window](fmt.Errorf("load %s: %w", typ, ErrUnknownType))
	}
	if r.loader == nil {
		w, err := r.LoadImmediate(typ)
		return settled(w, err)
	}

	p := promise.New[window.Window]()
	r.pending[typ] = p
	queued := r.loader.Enqueue(backend.Job{
		Type:  typ,
		Build: func(ctx context.Context) (window.Window, error) { return factory(ctx, typ) },
	})
	if !queued {
		delete(r.pending, typ)
		p.Reject(fmt.Errorf("load %s: loader stopped", typ))
	}
	return p
}

func (r *Registry) LoadImmediate(typ window.Type) (window.Window, error) {
	if w, ok := r.loaded[typ]; ok {
		return w, nil
	}
	factory, ok := r.factories[typ]
	if !ok {
		return nil, fmt.Errorf("load %s: %w", typ, ErrUnknownType)
	}
	w, err := factory(context.Background(), typ)
	w, err = r.finish(typ, w, err)
	if err == nil {
		events.Window.Loaded(string(typ), false)
	}
	return w, err
}

func (r *Registry) Unload(typ window.Type) {
	w, ok := r.loaded[typ]
	if !ok {
		return
	}
	delete(r.loaded, typ)
	w.Dispose()
	w.SetState(window.StateUnloaded)
	events.Window.Unloaded(string(typ))
}

// Pending returns the number of asynchronous loads not yet polled in.
func (r *Registry) Pending() int {
	return len(r.pending)
}

// Poll completes every asynchronous load whose factory has returned. It must
// run on the loop goroutine and never blocks. It returns the number of loads
// completed.
func (r *Registry) Poll() int {
	if r.loader == nil {
		return 0
	}
	n := 0
	for {
		select {
		case evt := <-r.loader.Events():
			r.complete(evt)
			n++
		default:
			return n
		}
	}
}

// Close stops the loader. Pending promises stay unsettled.
func (r *Registry) Close() {
	if r.loader != nil {
		r.loader.Stop()
	}
}

func (r *Registry) complete(evt backend.Event) {
	if _, waiting := r.pending[evt.Type]; !waiting {
		// LoadImmediate won the race; the async instance is surplus.
		if evt.Window != nil && evt.Window != r.loaded[evt.Type] {
			evt.Window.Dispose()
		}
		return
	}
	if _, err := r.finish(evt.Type, evt.Window, evt.Err); err == nil {
		events.Window.Loaded(string(evt.Type), true)
	}
}

// finish runs Create on a freshly built window, caches it and settles any
// promise waiting for typ.
func (r *Registry) finish(typ window.Type, w window.Window, err error) (window.Window, error) {
	switch {
	case err != nil:
		err = fmt.Errorf("load %s: %w", typ, err)
	case w == nil:
		err = fmt.Errorf("load %s: factory returned no window", typ)
	}
	if err == nil {
		if cerr := w.Create(); cerr != nil {
			err = fmt.Errorf("create %s: %w", typ, cerr)
			w = nil
		}
	}
	if err != nil {
		logging.Error(err)
		events.Window.LoadFailed(string(typ), err)
		w = nil
	} else {
		w.SetState(window.StateClosed)
		r.loaded[typ] = w
	}
	if p, ok := r.pending[typ]; ok {
		delete(r.pending, typ)
		p.Settle(w, err)
	}
	return w, err
}

func settled(w window.Window, err error) *promise.Promise[window.Window] {
	if err != nil {
		return promise.Rejected[window.Window](err)
	}
	return promise.Resolved(w)
}
