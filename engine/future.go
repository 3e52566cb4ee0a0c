package engine

import (
	"context"
	"errors"
	"sync"
)

// ErrFutureResolved is returned when a future is fulfilled a second time
var ErrFutureResolved = errors.New("future already resolved")

// Future is a one-shot result slot with enforced single fulfilment
// Continuations registered with Then run synchronously on the resolving goroutine
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	resolved  bool
	callbacks []func(T)
}

// NewFuture creates an unresolved future
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve stores v and runs pending continuations in registration order
func (f *Future[T]) Resolve(v T) error {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return ErrFutureResolved
	}
	f.value = v
	f.resolved = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(v)
	}
	return nil
}

// Then registers fn to run with the value; runs immediately if already resolved
func (f *Future[T]) Then(fn func(T)) {
	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	v := f.value
	f.mu.Unlock()
	fn(v)
}

// Done returns a channel closed on resolution
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether a value has been stored
func (f *Future[T]) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Value returns the stored value and whether it is present
func (f *Future[T]) Value() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.resolved
}

// Await blocks until resolution or context cancellation
// Only for goroutines other than the one driving the clock
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		v, _ := f.Value()
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
