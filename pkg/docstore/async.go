package docstore

import "context"

// Result carries the outcome of an operation started with [Go].
type Result[T any] struct {
	Value T
	Err   error
}

// Go runs fn in a new goroutine and returns a channel that receives its
// result exactly once. The channel is buffered, so a result nobody waits
// for is dropped without blocking the goroutine.
func Go[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)

	go func() {
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()

	return ch
}

// Await waits for the result on ch or for ctx to be done, whichever comes
// first. Giving up does not cancel the running operation.
func Await[T any](ctx context.Context, ch <-chan Result[T]) (T, error) {
	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}
