// Package backend runs window construction off the loop goroutine. Jobs run
// on worker goroutines and their results are published on a channel that the
// owner drains at its own pace.
package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/layerstack/internal/window"
)

// Job builds one window.
type Job struct {
	Type  window.Type
	Build func(context.Context) (window.Window, error)
}

// Event carries a finished job.
type Event struct {
	Type   window.Type
	Window window.Window
	Err    error
}

// Loader runs jobs with bounded concurrency and optional pacing.
type Loader struct {
	ctx    context.Context
	cancel context.CancelFunc

	slots    chan struct{}
	throttle *throttle
	events   chan Event
	wg       sync.WaitGroup
}

// NewLoader starts a loader running at most workers jobs at once, starting
// jobs at least interval apart. A non-positive workers value means one.
func NewLoader(workers int, interval time.Duration) *Loader {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		ctx:      ctx,
		cancel:   cancel,
		slots:    make(chan struct{}, workers),
		throttle: newThrottle(interval),
		events:   make(chan Event, 16),
	}
}

// Events returns the channel finished jobs are published on.
func (l *Loader) Events() <-chan Event {
	return l.events
}

// Enqueue schedules job. It never blocks the caller and reports false once
// the loader has been stopped.
func (l *Loader) Enqueue(job Job) bool {
	if l.ctx.Err() != nil {
		return false
	}
	l.wg.Add(1)
	go l.run(job)
	return true
}

// Stop cancels pending and running jobs. Results not yet published are
// dropped.
func (l *Loader) Stop() {
	l.cancel()
}

// Wait blocks until every job goroutine has exited.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) run(job Job) {
	defer l.wg.Done()

	select {
	case <-l.ctx.Done():
		return
	case l.slots <- struct{}{}:
	}
	defer func() { <-l.slots }()

	evt := Event{Type: job.Type}
	if err := l.throttle.wait(l.ctx); err != nil {
		return
	}
	evt.Window, evt.Err = build(l.ctx, job)

	select {
	case <-l.ctx.Done():
	case l.events <- evt:
	}
}

func build(ctx context.Context, job Job) (w window.Window, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build %s: panic: %v", job.Type, r)
		}
	}()
	if job.Build == nil {
		return nil, fmt.Errorf("build %s: no build function", job.Type)
	}
	return job.Build(ctx)
}
