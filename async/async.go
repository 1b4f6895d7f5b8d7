// Package async provides a minimal deferred-value abstraction used across
// the gateway wherever the source relies on a reactive Mono: a completion
// carries at most one value or error, runs concurrently with its caller,
// and can be combined with Then/Zip2. It is a thin wrapper around a
// goroutine and a buffered channel, deliberately small: the gateway does
// not need a full reactive streams implementation, only "one deferred
// result, awaited with a context".
package async

import "context"

// Completion represents a value of type T that becomes available at most
// once, possibly with an error instead. The result is delivered to a single
// Get call; a second Get on the same Completion waits until ctx is done.
type Completion[T any] struct {
	out chan result[T]
}

type result[T any] struct {
	val T
	err error
}

// Go starts fn in its own goroutine and returns a Completion for its result.
// fn must respect ctx cancellation; Completion.Get does not stop fn itself,
// it only stops waiting for it.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) Completion[T] {
	c := Completion[T]{out: make(chan result[T], 1)}
	go func() {
		v, err := fn(ctx)
		c.out <- result[T]{v, err}
	}()
	return c
}

// Done returns an already-resolved Completion, for synchronous values
// lifted into the async world (cf. predicate.ToAsync).
func Done[T any](v T, err error) Completion[T] {
	c := Completion[T]{out: make(chan result[T], 1)}
	c.out <- result[T]{v, err}
	return c
}

// Get blocks until the completion resolves or ctx is done, whichever comes
// first.
func (c Completion[T]) Get(ctx context.Context) (T, error) {
	select {
	case r := <-c.out:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then runs fn with the resolved value once c completes, as a new
// Completion. If c fails, fn is not called and the error propagates.
func Then[T, U any](ctx context.Context, c Completion[T], fn func(context.Context, T) (U, error)) Completion[U] {
	return Go(ctx, func(ctx context.Context) (U, error) {
		v, err := c.Get(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(ctx, v)
	})
}

// Map is Then without the error-producing step.
func Map[T, U any](ctx context.Context, c Completion[T], fn func(T) U) Completion[U] {
	return Then(ctx, c, func(_ context.Context, v T) (U, error) { return fn(v), nil })
}

// Zip2 awaits both completions concurrently (neither waits for the other
// to start) and combines their results with fn. If either fails, the zip
// fails; both sides are still awaited so that side effects complete.
func Zip2[A, B, R any](ctx context.Context, a Completion[A], b Completion[B], fn func(A, B) (R, error)) Completion[R] {
	return Go(ctx, func(ctx context.Context) (R, error) {
		av, aerr := a.Get(ctx)
		bv, berr := b.Get(ctx)
		var zero R
		if aerr != nil {
			return zero, aerr
		}
		if berr != nil {
			return zero, berr
		}
		return fn(av, bv)
	})
}
