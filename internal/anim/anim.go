// Package anim is the minimal animation abstraction the orchestrator depends on.
//
// A Handle is started once, advanced by the owner's tick, and may be fast
// forwarded with Complete. Completing a handle runs the same final step and the
// same OnDone callbacks a natural finish would, so callers only observe a
// shorter duration. Handles compose with Sequence and Parallel.
package anim

import "time"

// Handle is an animation timeline driven by explicit ticks.
type Handle interface {
	// Start begins the animation. Calling Start more than once has no effect.
	Start()
	// Advance moves a started animation forward by dt.
	Advance(dt time.Duration)
	// Complete fast-forwards to the end, starting the animation if needed.
	Complete()
	// Done reports whether the animation finished, naturally or forced.
	Done() bool
	// Err returns the failure that ended the animation, if any.
	Err() error
	// OnDone registers fn to run once the animation finishes. If it already
	// finished, fn runs immediately.
	OnDone(fn func(error))
}

type state struct {
	started   bool
	done      bool
	err       error
	callbacks []func(error)
}

func (s *state) Done() bool { return s.done }

func (s *state) Err() error { return s.err }

func (s *state) OnDone(fn func(error)) {
	if fn == nil {
		return
	}
	if s.done {
		fn(s.err)
		return
	}
	s.callbacks = append(s.callbacks, fn)
}

func (s *state) finish(err error) {
	if s.done {
		return
	}
	s.done = true
	s.err = err
	callbacks := s.callbacks
	s.callbacks = nil
	for _, fn := range callbacks {
		fn(err)
	}
}

// Tween interpolates progress from 0 to 1 over a duration and hands the eased
// value to apply on every step.
type Tween struct {
	state
	duration time.Duration
	elapsed  time.Duration
	ease     Easing
	apply    func(progress float64) error
}

// NewTween builds a tween. A nil ease means Linear; a nil apply is allowed.
func NewTween(duration time.Duration, ease Easing, apply func(progress float64) error) *Tween {
	if ease == nil {
		ease = Linear
	}
	return &Tween{duration: duration, ease: ease, apply: apply}
}

// Progress returns the un-eased fraction of the duration that has elapsed.
func (t *Tween) Progress() float64 {
	if t.duration <= 0 {
		if t.done {
			return 1
		}
		return 0
	}
	p := float64(t.elapsed) / float64(t.duration)
	if p > 1 {
		p = 1
	}
	return p
}

func (t *Tween) Start() {
	if t.started || t.done {
		return
	}
	t.started = true
	if err := t.step(0); err != nil {
		t.finish(err)
		return
	}
	if t.duration <= 0 {
		t.end()
	}
}

func (t *Tween) Advance(dt time.Duration) {
	if !t.started || t.done || dt <= 0 {
		return
	}
	t.elapsed += dt
	if t.elapsed >= t.duration {
		t.end()
		return
	}
	if err := t.step(t.Progress()); err != nil {
		t.finish(err)
	}
}

func (t *Tween) Complete() {
	if t.done {
		return
	}
	if !t.started {
		t.Start()
		if t.done {
			return
		}
	}
	t.end()
}

func (t *Tween) end() {
	t.elapsed = t.duration
	t.finish(t.step(1))
}

func (t *Tween) step(p float64) error {
	if t.apply == nil {
		return nil
	}
	return t.apply(t.ease(p))
}

// Instant runs fn when started and finishes in the same call.
func Instant(fn func() error) Handle {
	return &instant{fn: fn}
}

// None is a handle with nothing to animate.
func None() Handle {
	return Instant(nil)
}

type instant struct {
	state
	fn func() error
}

func (i *instant) Start() {
	if i.started || i.done {
		return
	}
	i.started = true
	var err error
	if i.fn != nil {
		err = i.fn()
	}
	i.finish(err)
}

func (i *instant) Advance(time.Duration) {}

func (i *instant) Complete() { i.Start() }

// Sequence runs handles one after another. A failing step ends the sequence
// with its error and later steps are not started.
func Sequence(handles ...Handle) Handle {
	return &sequence{steps: compact(handles)}
}

type sequence struct {
	state
	steps []Handle
	index int
}

func (s *sequence) Start() {
	if s.started || s.done {
		return
	}
	s.started = true
	if len(s.steps) > 0 {
		s.steps[0].Start()
	}
	s.settle()
}

func (s *sequence) Advance(dt time.Duration) {
	if !s.started || s.done {
		return
	}
	if s.index < len(s.steps) {
		s.steps[s.index].Advance(dt)
	}
	s.settle()
}

func (s *sequence) Complete() {
	if s.done {
		return
	}
	if !s.started {
		s.Start()
	}
	for !s.done && s.index < len(s.steps) {
		s.steps[s.index].Complete()
		s.settle()
	}
}

// settle moves past finished steps, starting the next one each time.
func (s *sequence) settle() {
	for !s.done {
		if s.index >= len(s.steps) {
			s.finish(nil)
			return
		}
		current := s.steps[s.index]
		if !current.Done() {
			return
		}
		if err := current.Err(); err != nil {
			s.finish(err)
			return
		}
		s.index++
		if s.index < len(s.steps) {
			s.steps[s.index].Start()
		}
	}
}

// Parallel runs handles together and finishes when all of them have. The
// first error in argument order is reported.
func Parallel(handles ...Handle) Handle {
	return &parallel{parts: compact(handles)}
}

type parallel struct {
	state
	parts []Handle
}

func (p *parallel) Start() {
	if p.started || p.done {
		return
	}
	p.started = true
	for _, h := range p.parts {
		h.Start()
	}
	p.settle()
}

func (p *parallel) Advance(dt time.Duration) {
	if !p.started || p.done {
		return
	}
	for _, h := range p.parts {
		if !h.Done() {
			h.Advance(dt)
		}
	}
	p.settle()
}

func (p *parallel) Complete() {
	if p.done {
		return
	}
	if !p.started {
		p.Start()
	}
	for _, h := range p.parts {
		h.Complete()
	}
	p.settle()
}

func (p *parallel) settle() {
	if p.done {
		return
	}
	var first error
	for _, h := range p.parts {
		if !h.Done() {
			return
		}
		if first == nil {
			first = h.Err()
		}
	}
	p.finish(first)
}

func compact(handles []Handle) []Handle {
	out := make([]Handle, 0, len(handles))
	for _, h := range handles {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
