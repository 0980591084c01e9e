package models

import (
	"context"
	"sync"
)

type Result[T any] struct {
	Data T
	Err  error
}

// Future is the pending result of a unit of work.
type Future[T any] struct {
	mu       sync.Mutex
	done     chan struct{}
	result   T
	resolved bool
	cancel   context.CancelFunc
}

func NewFuture[T any](cancel context.CancelFunc) *Future[T] {
	return &Future[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Resolve sets the result. Only the first call has an effect.
func (f *Future[T]) Resolve(result T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved {
		return
	}
	f.result = result
	f.resolved = true
	close(f.done)
}

// Poll returns the result and true if the future is resolved.
func (f *Future[T]) Poll() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.resolved
}

func (f *Future[T]) IsResolved() bool {
	_, ok := f.Poll()
	return ok
}

// Wait blocks until the future is resolved or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		r, _ := f.Poll()
		return r, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Stop cancels the context of the work behind the future.
func (f *Future[T]) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}
