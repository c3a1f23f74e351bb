package group

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atomicstack/layerstack/internal/anim"
	"github.com/atomicstack/layerstack/internal/backend"
	"github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/escape"
	"github.com/atomicstack/layerstack/internal/logging"
	"github.com/atomicstack/layerstack/internal/promise"
	"github.com/atomicstack/layerstack/internal/provider"
	"github.com/atomicstack/layerstack/internal/window"
)

func TestMain(m *testing.M) {
	logging.Configure(filepath.Join(os.TempDir(), "layerstack-group-test.log"))
	os.Exit(m.Run())
}

type recorder struct {
	log []string
}

func (r *recorder) add(entry string) { r.log = append(r.log, entry) }

func (r *recorder) count(entry string) int {
	n := 0
	for _, e := range r.log {
		if e == entry {
			n++
		}
	}
	return n
}

func (r *recorder) index(entry string) int {
	return slices.Index(r.log, entry)
}

func (r *recorder) reset() { r.log = nil }

type testWindow struct {
	*window.Base
	rec           *recorder
	showDur       time.Duration
	hideDur       time.Duration
	showErr       error
	consumeEscape bool
}

func (w *testWindow) Show(ctx window.TransitionContext) anim.Handle {
	name := string(w.Type())
	if ctx.IsFlush {
		w.rec.add(name + ".show-flush")
	}
	return anim.NewTween(w.showDur, nil, func(p float64) error {
		switch p {
		case 0:
			w.rec.add(name + ".show")
		case 1:
			w.rec.add(name + ".shown")
			return w.showErr
		}
		return nil
	})
}

func (w *testWindow) Hide(ctx window.TransitionContext) anim.Handle {
	name := string(w.Type())
	if ctx.IsFlush {
		w.rec.add(name + ".hide-flush")
	}
	return anim.NewTween(w.hideDur, nil, func(p float64) error {
		switch p {
		case 0:
			w.rec.add(name + ".hide")
		case 1:
			w.rec.add(name + ".hidden")
		}
		return nil
	})
}

type fixture struct {
	t     *testing.T
	rec   *recorder
	reg   *provider.Registry
	chain *escape.Chain
	mgr   *Manager
}

func newFixture(t *testing.T, cfg Config, opts ...provider.Option) *fixture {
	if cfg.ID == "" {
		cfg.ID = "menu"
	}
	reg := provider.NewRegistry(opts...)
	chain := escape.NewChain()
	return &fixture{t: t, rec: &recorder{}, reg: reg, chain: chain, mgr: New(cfg, reg, chain)}
}

func (f *fixture) add(typ window.Type, s window.Settings) *testWindow {
	w := &testWindow{
		Base:    window.NewBase(typ, "", f.mgr.ID(), s),
		rec:     f.rec,
		showDur: 100 * time.Millisecond,
		hideDur: 100 * time.Millisecond,
	}
	name := string(typ)
	w.Listeners().Add(window.Hooks{
		Opening:     func(window.Window) { f.rec.add(name + ".opening") },
		Opened:      func(window.Window) { f.rec.add(name + ".opened") },
		Closing:     func(window.Window) { f.rec.add(name + ".closing") },
		Closed:      func(window.Window) { f.rec.add(name + ".closed") },
		FocusGained: func(window.Window) { f.rec.add(name + ".focus-gained") },
		FocusLost:   func(window.Window) { f.rec.add(name + ".focus-lost") },
		Escape: func(window.Window) bool {
			f.rec.add(name + ".escape")
			return w.consumeEscape
		},
	})
	f.reg.Register(typ, func(context.Context, window.Type) (window.Window, error) { return w, nil })
	return w
}

func (f *fixture) submit(b *command.Builder) *promise.Promise[window.Window] {
	return f.mgr.Submit(b.Build())
}

func (f *fixture) settle() {
	f.t.Helper()
	for i := 0; i < 1000; i++ {
		f.reg.Poll()
		if !f.mgr.Busy() {
			return
		}
		f.mgr.Tick(10 * time.Millisecond)
	}
	f.t.Fatalf("group %s never settled", f.mgr.ID())
}

func (f *fixture) open(types ...window.Type) {
	for _, typ := range types {
		f.submit(command.Open(typ))
		f.settle()
	}
}

func (f *fixture) stack() []window.Type {
	var out []window.Type
	for _, w := range f.mgr.Stack() {
		out = append(out, w.Type())
	}
	return out
}

func (f *fixture) sorting() map[window.Type]int {
	out := make(map[window.Type]int)
	for _, w := range f.mgr.Stack() {
		out[w.Type()] = w.SortingOrder()
	}
	return out
}

func TestOpenPushesFocusesAndSorts(t *testing.T) {
	f := newFixture(t, Config{Base: 1000})
	a := f.add("a", window.Settings{})

	p := f.submit(command.Open("a"))
	require.Equal(t, PhaseTransitioning, f.mgr.Phase())
	require.Equal(t, window.StateOpening, a.State())
	require.True(t, a.Active())
	require.False(t, p.Settled())

	f.settle()
	got, err, ok := p.Result()
	require.True(t, ok)
	require.NoError(t, err)
	require.Same(t, a, got)
	require.Equal(t, window.StateOpen, a.State())
	require.Equal(t, []window.Type{"a"}, f.stack())
	require.Equal(t, 1100, a.SortingOrder())
	require.Equal(t, []string{"a.opening", "a.focus-gained", "a.show", "a.shown", "a.opened"}, f.rec.log)
	require.Same(t, a, f.mgr.Focused())
}

func TestQueuedCommandRunsAfterActiveTransition(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})

	pa := f.submit(command.Open("a"))
	pb := f.submit(command.Open("b"))
	require.Equal(t, 1, f.mgr.QueueLen())
	require.Equal(t, -1, f.rec.index("b.opening"))

	f.mgr.Tick(50 * time.Millisecond)
	require.Equal(t, -1, f.rec.index("b.opening"))
	require.False(t, pa.Settled())

	f.settle()
	require.True(t, pa.Settled())
	require.True(t, pb.Settled())
	require.Less(t, f.rec.index("a.opened"), f.rec.index("b.opening"))
	require.Equal(t, []window.Type{"a", "b"}, f.stack())
}

func TestQueueRespectsPriority(t *testing.T) {
	f := newFixture(t, Config{})
	for _, typ := range []window.Type{"a", "b", "c", "d"} {
		f.add(typ, window.Settings{})
	}
	f.submit(command.Open("a"))
	f.submit(command.Open("b").WithPriority(5))
	f.submit(command.Open("c").WithPriority(1))
	f.submit(command.Open("d").WithPriority(1))

	f.settle()
	require.Equal(t, []window.Type{"a", "c", "d", "b"}, f.stack())
}

func TestImmediateForcesActiveTransition(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})

	pa := f.submit(command.Open("a"))
	f.submit(command.Open("b").Immediate())

	require.True(t, pa.Settled(), "a's completion must run before b starts")
	require.Less(t, f.rec.index("a.shown"), f.rec.index("a.opened"))
	require.Less(t, f.rec.index("a.opened"), f.rec.index("b.opening"))
	require.Equal(t, PhaseTransitioning, f.mgr.Phase())
	require.Zero(t, f.mgr.QueueLen())
}

func TestHideWindowsBelowHidesPreviousTop(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	b := f.add("b", window.Settings{HideWindowsBelow: true})
	f.open("a")
	f.rec.reset()

	f.submit(command.Open("b"))
	require.Equal(t, []string{"b.opening", "a.focus-lost", "b.focus-gained", "a.hide", "b.show"}, f.rec.log)
	f.settle()

	require.False(t, a.Active())
	require.True(t, b.Active())
	require.Same(t, b, f.mgr.Top())
	require.LessOrEqual(t, f.rec.index("a.hidden"), f.rec.index("b.shown"))

	f.rec.reset()
	f.submit(command.Close("b"))
	f.settle()
	require.True(t, a.Active(), "closing b exposes a again")
	require.Equal(t, 1, f.rec.count("a.show"))
}

func TestSequentialHidesBeforeShowing(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{HideWindowsBelow: true, Sequential: true})
	f.open("a")
	f.rec.reset()

	f.submit(command.Open("b"))
	require.Equal(t, -1, f.rec.index("b.show"))
	f.settle()
	require.Less(t, f.rec.index("a.hidden"), f.rec.index("b.show"))
}

func TestHideOnFocusLoss(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{HideOnFocusLoss: true})
	f.add("b", window.Settings{})
	f.open("a", "b")
	require.False(t, a.Active())

	f.rec.reset()
	f.submit(command.Focus("a"))
	require.True(t, a.Active())
	require.Equal(t, PhaseIdle, f.mgr.Phase())
	require.Equal(t, 1, f.rec.count("a.shown"), "focus snaps the show to its last frame")

	f.rec.reset()
	f.submit(command.Focus("b"))
	require.False(t, a.Active())
	require.Equal(t, 1, f.rec.count("a.hidden"))
}

func TestFocusOverHideBelowSnapsVisibility(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	b := f.add("b", window.Settings{HideWindowsBelow: true})
	f.open("a", "b")
	require.False(t, a.Active())
	f.rec.reset()

	f.submit(command.Focus("a"))
	require.Equal(t, PhaseIdle, f.mgr.Phase())
	require.Same(t, a, f.mgr.Top())
	require.True(t, a.Active())
	require.True(t, b.Active())
	require.Equal(t, 1, f.rec.count("a.show"))
	require.Equal(t, 1, f.rec.count("a.shown"))
	require.Zero(t, f.rec.count("b.hide"))
}

func TestClosingTopTransfersFocusOnce(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	b := f.add("b", window.Settings{})
	f.open("a", "b")
	f.rec.reset()

	p := f.submit(command.Close("b"))
	f.settle()
	require.Equal(t, 1, f.rec.count("b.focus-lost"))
	require.Equal(t, 1, f.rec.count("a.focus-gained"))
	require.Zero(t, f.rec.count("a.focus-lost"))
	require.Equal(t, window.StateClosed, b.State())
	require.False(t, b.Active())
	require.Less(t, f.rec.index("b.hidden"), f.rec.index("b.closed"))
	got, _, _ := p.Result()
	require.Same(t, b, got)
	require.Equal(t, []window.Type{"a"}, f.stack())
}

func TestCloseBelowTopKeepsFocus(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	f.open("a", "b")
	f.rec.reset()

	f.submit(command.Close("a"))
	f.settle()
	require.Zero(t, f.rec.count("b.focus-lost"))
	require.Zero(t, f.rec.count("a.focus-lost"))
	require.Equal(t, []window.Type{"b"}, f.stack())
}

func TestCloseMissingWindowIsNoOp(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	_, err := f.reg.LoadImmediate("a")
	require.NoError(t, err)

	p := f.submit(command.Close("a"))
	got, err, ok := p.Result()
	require.True(t, ok)
	require.NoError(t, err)
	require.Same(t, a, got)
	require.Empty(t, f.rec.log)
	require.Equal(t, PhaseIdle, f.mgr.Phase())
}

func TestToggleOpensThenCloses(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})

	f.submit(command.Toggle("a"))
	f.settle()
	require.Equal(t, []window.Type{"a"}, f.stack())
	f.submit(command.Toggle("a"))
	f.settle()
	require.Empty(t, f.stack())
}

func TestOpeningOpenWindowFocusesIt(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	f.open("a", "b")
	f.rec.reset()

	f.submit(command.Open("a"))
	require.Equal(t, []window.Type{"b", "a"}, f.stack())
	require.Zero(t, f.rec.count("a.opening"))
}

func TestFocusTopIsIdempotent(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	f.open("a", "b")
	before := f.sorting()
	f.rec.reset()

	p := f.submit(command.Focus("b"))
	require.True(t, p.Settled())
	require.Empty(t, f.rec.log)
	require.Equal(t, PhaseIdle, f.mgr.Phase())
	require.Equal(t, []window.Type{"a", "b"}, f.stack())
	require.Equal(t, before, f.sorting())
}

func TestFocusMovesWithoutAnimation(t *testing.T) {
	f := newFixture(t, Config{Base: 500})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	f.open("a", "b")
	f.rec.reset()

	f.submit(command.Focus("a"))
	require.Equal(t, PhaseIdle, f.mgr.Phase())
	require.Equal(t, []string{"b.focus-lost", "a.focus-gained"}, f.rec.log)
	require.Equal(t, []window.Type{"b", "a"}, f.stack())
	require.Equal(t, map[window.Type]int{"b": 600, "a": 700}, f.sorting())
}

func TestPlacementAboveAndBelow(t *testing.T) {
	f := newFixture(t, Config{})
	for _, typ := range []window.Type{"x", "y", "w", "v"} {
		f.add(typ, window.Settings{})
	}
	f.open("x", "y")

	f.submit(command.Open("w").Below("y"))
	f.settle()
	require.Equal(t, []window.Type{"x", "w", "y"}, f.stack())
	require.Same(t, f.mgr.Top(), f.reg.Get("y"), "a window placed below the top does not take focus")

	f.submit(command.Open("v").Above("x"))
	f.settle()
	stack := f.stack()
	require.Greater(t, slices.Index(stack, "v"), slices.Index(stack, "x"))
}

func TestConflictingPlacementLaterRuleWins(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("x", window.Settings{})
	f.add("w", window.Settings{})
	f.open("x")

	f.submit(command.Open("w").Above("x").Below("x"))
	f.settle()
	require.Equal(t, []window.Type{"w", "x"}, f.stack())
}

func TestOpenCloseRoundTrip(t *testing.T) {
	f := newFixture(t, Config{Base: 10})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	f.add("w", window.Settings{HideWindowsBelow: true})
	f.open("a", "b")
	stack, sorting := f.stack(), f.sorting()

	f.submit(command.Open("w").Below("b"))
	f.settle()
	require.Equal(t, 310, f.reg.Get("b").SortingOrder())

	f.submit(command.Close("w"))
	f.settle()
	require.Equal(t, stack, f.stack())
	require.Equal(t, sorting, f.sorting())
	require.True(t, f.reg.Get("a").Active())
}

func TestRandomCommandsNeverDuplicate(t *testing.T) {
	f := newFixture(t, Config{})
	types := []window.Type{"a", "b", "c"}
	for _, typ := range types {
		f.add(typ, window.Settings{HideOnFocusLoss: typ == "b"})
	}
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 200; i++ {
		typ := types[rng.IntN(len(types))]
		var b *command.Builder
		switch rng.IntN(3) {
		case 0:
			b = command.Open(typ)
		case 1:
			b = command.Close(typ)
		default:
			b = command.Toggle(typ)
		}
		if rng.IntN(4) == 0 {
			b.Immediate()
		}
		f.submit(b)
		if rng.IntN(3) == 0 {
			f.settle()
		}

		stack := f.stack()
		require.LessOrEqual(t, len(stack), len(types))
		seen := make(map[window.Type]bool)
		for _, typ := range stack {
			require.False(t, seen[typ], "duplicate %s in %v", typ, stack)
			seen[typ] = true
		}
	}
	f.settle()
}

func TestEscapeDuringTransitionForceCompletes(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{Escape: true})
	b := f.add("b", window.Settings{Escape: true})
	a.consumeEscape = true
	b.consumeEscape = true
	f.open("a")

	p := f.submit(command.Open("b"))
	require.Equal(t, "menu:transition", f.chain.Top().Name())
	require.True(t, f.chain.Press())
	require.True(t, p.Settled())
	require.Equal(t, window.StateOpen, b.State())
	require.Zero(t, f.rec.count("a.escape"))
	require.Zero(t, f.rec.count("b.escape"))
	require.Equal(t, PhaseIdle, f.mgr.Phase())

	require.True(t, f.chain.Press())
	require.Equal(t, 1, f.rec.count("b.escape"))
	require.Zero(t, f.rec.count("a.escape"))
}

func TestFocusedWindowOwnsEscapeRegistration(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{Escape: true})
	f.add("b", window.Settings{})
	f.open("a")
	require.Equal(t, []string{"menu:a"}, f.chain.Names())

	f.open("b")
	require.Zero(t, f.chain.Len(), "b does not opt in and a lost focus")

	f.submit(command.Close("b"))
	f.settle()
	require.Equal(t, []string{"menu:a"}, f.chain.Names())
}

func TestCloseOnEscape(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{Escape: true, CloseOnEscape: true})
	f.open("a")

	require.True(t, f.chain.Press())
	require.Less(t, f.rec.index("a.escape"), f.rec.index("a.closing"))
	f.settle()
	require.Empty(t, f.stack())
	require.Equal(t, window.StateClosed, a.State())
	require.Zero(t, f.chain.Len())
}

func TestPassEscapeDropsPress(t *testing.T) {
	f := newFixture(t, Config{PassEscape: true})
	a := f.add("a", window.Settings{Escape: true})
	a.consumeEscape = true
	f.open("a")
	require.Equal(t, 1, f.chain.Len())

	require.False(t, f.chain.Press())
	require.Zero(t, f.rec.count("a.escape"))
	require.Zero(t, f.chain.Len())
}

func TestBackgroundGroupNeverRegistersFocus(t *testing.T) {
	f := newFixture(t, Config{ID: "hud", Background: true})
	f.add("a", window.Settings{Escape: true})
	f.open("a")
	require.Zero(t, f.chain.Len())
}

func TestClearRejectsQueued(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	f.add("c", window.Settings{})

	pa := f.submit(command.Open("a"))
	pb := f.submit(command.Open("b"))
	pc := f.submit(command.Open("c"))
	require.Equal(t, 2, f.mgr.Clear())

	for _, p := range []*promise.Promise[window.Window]{pb, pc} {
		_, err, ok := p.Result()
		require.True(t, ok)
		require.True(t, command.IsCancelled(err))
	}
	require.False(t, pa.Settled())
	f.settle()
	require.Equal(t, []window.Type{"a"}, f.stack())
}

func TestFlushCompletesEverything(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	c := f.add("c", window.Settings{})

	f.submit(command.Open("a"))
	f.submit(command.Open("b"))
	pc := f.submit(command.Open("c"))
	f.mgr.Flush()

	require.False(t, f.mgr.Busy())
	require.True(t, pc.Settled())
	require.Equal(t, window.StateOpen, c.State())
	require.Equal(t, []window.Type{"a", "b", "c"}, f.stack())
	require.Equal(t, 1, f.rec.count("a.opened"))
	require.Zero(t, f.rec.count("a.show-flush"), "a started before the flush")
	require.Equal(t, 1, f.rec.count("b.show-flush"))
	require.Equal(t, 1, f.rec.count("c.show-flush"))
}

func TestTransitionFailureKeepsState(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	boom := errors.New("boom")
	a.showErr = boom

	p := f.submit(command.Open("a"))
	f.settle()

	_, err, ok := p.Result()
	require.True(t, ok)
	require.ErrorIs(t, err, boom)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "open", te.Op)
	require.Equal(t, window.Type("a"), te.Type)
	require.Equal(t, window.StateOpen, a.State())
	require.True(t, a.Active())
	require.Equal(t, []window.Type{"a"}, f.stack())
	require.Equal(t, 1, f.rec.count("a.opened"))
}

func TestUnknownTypeResolvesNil(t *testing.T) {
	f := newFixture(t, Config{})
	got, err, ok := f.submit(command.Open("ghost")).Result()
	require.True(t, ok)
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, PhaseIdle, f.mgr.Phase())
}

func TestCallbackSubmissionIsQueued(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	var queuedInside int
	a.Listeners().Add(window.Hooks{Opened: func(window.Window) {
		f.submit(command.Open("b"))
		queuedInside = f.mgr.QueueLen()
	}})

	f.open("a")
	require.Equal(t, 1, queuedInside)
	require.Equal(t, []window.Type{"a", "b"}, f.stack())
	require.Less(t, f.rec.index("a.opened"), f.rec.index("b.opening"))
}

func TestLoadDeactivatesWithoutOpening(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	a.SetActive(true)

	got, err, ok := f.submit(command.Load("a")).Result()
	require.True(t, ok)
	require.NoError(t, err)
	require.Same(t, a, got)
	require.False(t, a.Active())
	require.Empty(t, f.stack())
}

func TestUnloadClosesThenReleases(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	f.open("a")

	p := f.submit(command.Unload("a"))
	require.NotNil(t, f.reg.Get("a"), "release waits for the close transition")
	f.settle()
	require.True(t, p.Settled())
	require.Nil(t, f.reg.Get("a"))
	require.Equal(t, window.StateUnloaded, a.State())
	require.Less(t, f.rec.index("a.closed"), len(f.rec.log))
}

func TestCloseAllEmptiesGroupInOneTransition(t *testing.T) {
	f := newFixture(t, Config{})
	a := f.add("a", window.Settings{})
	b := f.add("b", window.Settings{})
	f.open("a", "b")
	f.rec.reset()

	p := f.submit(command.CloseAll("menu"))
	require.Empty(t, f.stack())
	require.Equal(t, []string{"b.closing", "a.closing", "b.focus-lost", "b.hide", "a.hide"}, f.rec.log)
	f.settle()
	require.True(t, p.Settled())
	require.Equal(t, window.StateClosed, a.State())
	require.Equal(t, window.StateClosed, b.State())
	require.False(t, a.Active())
	require.Nil(t, f.mgr.Focused())
}

func TestAsyncLoadBlocksQueue(t *testing.T) {
	loader := backend.NewLoader(1, 0)
	defer loader.Stop()
	f := newFixture(t, Config{}, provider.WithLoader(loader))
	f.add("a", window.Settings{})
	f.add("b", window.Settings{})

	f.submit(command.Open("a"))
	require.Equal(t, PhaseLoading, f.mgr.Phase())
	f.submit(command.Open("b"))
	require.Equal(t, 1, f.mgr.QueueLen())

	require.Eventually(t, func() bool {
		f.reg.Poll()
		return f.mgr.Phase() == PhaseTransitioning
	}, 2*time.Second, time.Millisecond)

	f.mgr.Flush()
	require.Equal(t, []window.Type{"a", "b"}, f.stack())
}

func TestImmediateResolvesPendingLoad(t *testing.T) {
	loader := backend.NewLoader(1, 0)
	defer loader.Stop()
	f := newFixture(t, Config{}, provider.WithLoader(loader))
	a := f.add("a", window.Settings{})
	f.add("b", window.Settings{})
	_, err := f.reg.LoadImmediate("b")
	require.NoError(t, err)

	var calls int32
	f.reg.Register("a", func(ctx context.Context, _ window.Type) (window.Window, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return a, nil
	})

	f.submit(command.Open("a"))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, 2*time.Second, time.Millisecond)
	require.Equal(t, PhaseLoading, f.mgr.Phase())

	f.submit(command.Open("b").Immediate())
	require.Equal(t, window.StateOpen, a.State())
	require.Equal(t, []window.Type{"a", "b"}, f.stack())
}

func TestSecondTransitionPanics(t *testing.T) {
	f := newFixture(t, Config{})
	f.add("a", window.Settings{})
	f.submit(command.Open("a"))
	require.PanicsWithValue(t, ErrTransitionActive, func() {
		f.mgr.startTransition("open", nil, plan{}, window.TransitionContext{}, false, func(error) {})
	})
}
