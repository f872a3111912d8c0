package services

import (
	"context"
	"fmt"
	"sync"
)

// LiveView is a scoped handle on one or more live subscriptions. It pushes a
// recomputed value on every upstream change until it is closed or a source
// fails. Updates is closed in both cases; Err tells them apart. A slow reader
// only sees the latest value.
type LiveView[T any] struct {
	updates  chan T
	done     chan struct{}
	cancel   context.CancelFunc
	release  func()
	stopOnce sync.Once

	mu  sync.Mutex
	err error
}

func newLiveView[T any](cancel context.CancelFunc, release func()) *LiveView[T] {
	return &LiveView[T]{
		updates: make(chan T, 1),
		done:    make(chan struct{}),
		cancel:  cancel,
		release: release,
	}
}

func (v *LiveView[T]) Updates() <-chan T {
	return v.updates
}

func (v *LiveView[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Close releases every subscription held by the view and waits for its
// producer to exit. It is safe to call more than once.
func (v *LiveView[T]) Close() {
	v.stop()
	<-v.done
}

// Done is closed once the view has fully shut down.
func (v *LiveView[T]) Done() <-chan struct{} {
	return v.done
}

func (v *LiveView[T]) stop() {
	v.stopOnce.Do(func() {
		v.cancel()
		if v.release != nil {
			v.release()
		}
	})
}

// run starts the single producer. The loop must only call publish.
func (v *LiveView[T]) run(loop func() error) {
	go func() {
		defer close(v.done)
		defer close(v.updates)
		defer v.stop()

		if err := loop(); err != nil {
			v.mu.Lock()
			v.err = err
			v.mu.Unlock()
		}
	}()
}

func (v *LiveView[T]) publish(value T) {
	select {
	case <-v.updates:
	default:
	}
	v.updates <- value
}

// streamEnded turns a closed upstream channel into the view's error. A
// closure caused by our own cancellation is not an error.
func streamEnded(ctx context.Context, name string, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	if err == nil {
		err = ErrViewClosed
	}
	return fmt.Errorf("%s stream ended: %w", name, err)
}

// firstValue waits for the view's first value and then closes it.
func firstValue[T any](ctx context.Context, view *LiveView[T]) (T, error) {
	defer view.Close()

	var zero T
	select {
	case value, ok := <-view.Updates():
		if !ok {
			if err := view.Err(); err != nil {
				return zero, err
			}
			return zero, ErrViewClosed
		}
		return value, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
