// Package promise provides a single-assignment result that is settled on the
// orchestrator's loop goroutine and may be awaited from any other goroutine.
//
// Callbacks registered with Then run synchronously on the goroutine that
// settles the promise, in registration order. A callback registered after the
// promise settled runs immediately on the caller's goroutine.
package promise

import (
	"context"
	"sync"
)

// Promise holds the eventual outcome of an asynchronous operation.
type Promise[T any] struct {
	mu        sync.Mutex
	settled   bool
	value     T
	err       error
	callbacks []func(T, error)
	done      chan struct{}
}

// New returns an unsettled promise.
func New[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns a promise already fulfilled with value.
func Resolved[T any](value T) *Promise[T] {
	p := New[T]()
	p.Resolve(value)
	return p
}

// Rejected returns a promise already rejected with err.
func Rejected[T any](err error) *Promise[T] {
	p := New[T]()
	p.Reject(err)
	return p
}

// Resolve fulfils the promise. It reports false when the promise was already settled.
func (p *Promise[T]) Resolve(value T) bool {
	return p.settle(value, nil)
}

// Reject settles the promise with err. A nil err is treated as a resolve with
// the zero value.
func (p *Promise[T]) Reject(err error) bool {
	var zero T
	return p.settle(zero, err)
}

// Settle resolves or rejects depending on err.
func (p *Promise[T]) Settle(value T, err error) bool {
	return p.settle(value, err)
}

func (p *Promise[T]) settle(value T, err error) bool {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return false
	}
	p.settled = true
	p.value = value
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(value, err)
	}
	return true
}

// Then registers fn to run once the promise settles.
func (p *Promise[T]) Then(fn func(T, error)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	if !p.settled {
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()
		return
	}
	value, err := p.value, p.err
	p.mu.Unlock()
	fn(value, err)
}

// Forward settles target with this promise's outcome once it is known.
func (p *Promise[T]) Forward(target *Promise[T]) {
	if target == nil || target == p {
		return
	}
	p.Then(func(value T, err error) {
		target.Settle(value, err)
	})
}

// Settled reports whether the promise has a result.
func (p *Promise[T]) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// Result returns the outcome; ok is false while the promise is pending.
func (p *Promise[T]) Result() (value T, err error, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err, p.settled
}

// Done is closed when the promise settles.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles or ctx is done. It must not be called
// from the goroutine that is expected to settle the promise.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		value, err, _ := p.Result()
		return value, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// All settles once every input has settled. The first rejection, in argument
// order, becomes the result; otherwise it resolves with an empty struct.
func All[T any](promises ...*Promise[T]) *Promise[struct{}] {
	out := New[struct{}]()
	if len(promises) == 0 {
		out.Resolve(struct{}{})
		return out
	}
	remaining := len(promises)
	errs := make([]error, len(promises))
	for i, p := range promises {
		p.Then(func(_ T, err error) {
			errs[i] = err
			remaining--
			if remaining > 0 {
				return
			}
			for _, e := range errs {
				if e != nil {
					out.Reject(e)
					return
				}
			}
			out.Resolve(struct{}{})
		})
	}
	return out
}
