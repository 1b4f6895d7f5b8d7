// Package predicate implements an asynchronous composable predicate
// calculus: a predicate is a function from an Exchange to an async bool,
// combined with And/Or/Negate. And/Or deliberately evaluate both operands
// concurrently without short-circuiting, since predicates are
// contractually cheap and side-effect-free, so parallel evaluation gives
// uniform latency without changing observable behaviour.
package predicate

import (
	"context"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/exchange"
)

// Predicate is an asynchronous boolean test over an Exchange.
type Predicate func(ctx context.Context, ex *exchange.Exchange) async.Completion[bool]

// Sync is a plain synchronous predicate, the shape most factory-produced
// predicates are naturally written in.
type Sync func(ex *exchange.Exchange) bool

// ToAsync lifts a synchronous predicate into the async world by wrapping
// its result in an already-resolved Completion.
func ToAsync(p Sync) Predicate {
	return func(_ context.Context, ex *exchange.Exchange) async.Completion[bool] {
		return async.Done(p(ex), nil)
	}
}

// And evaluates a and b concurrently against the same exchange and
// combines them with logical AND. Neither side is skipped even if the
// other already resolved to false: both complete, and a failure on either
// side fails the conjunction.
func And(a, b Predicate) Predicate {
	return func(ctx context.Context, ex *exchange.Exchange) async.Completion[bool] {
		ca := a(ctx, ex)
		cb := b(ctx, ex)
		return async.Zip2(ctx, ca, cb, func(av, bv bool) (bool, error) {
			return av && bv, nil
		})
	}
}

// Or is the symmetric disjunction of And.
func Or(a, b Predicate) Predicate {
	return func(ctx context.Context, ex *exchange.Exchange) async.Completion[bool] {
		ca := a(ctx, ex)
		cb := b(ctx, ex)
		return async.Zip2(ctx, ca, cb, func(av, bv bool) (bool, error) {
			return av || bv, nil
		})
	}
}

// Negate evaluates a once and returns its logical complement.
func Negate(a Predicate) Predicate {
	return func(ctx context.Context, ex *exchange.Exchange) async.Completion[bool] {
		return async.Map(ctx, a(ctx, ex), func(v bool) bool { return !v })
	}
}

// All folds And over a non-empty list of predicates, left to right; used
// by route compilation to conjoin a route's predicate
// list into one.
func All(ps ...Predicate) Predicate {
	if len(ps) == 0 {
		return ToAsync(func(*exchange.Exchange) bool { return true })
	}
	acc := ps[0]
	for _, p := range ps[1:] {
		acc = And(acc, p)
	}
	return acc
}

// Eval is a convenience blocking helper equivalent to p(ctx, ex).Get(ctx),
// used by the routing handler and by tests.
func Eval(ctx context.Context, p Predicate, ex *exchange.Exchange) (bool, error) {
	return p(ctx, ex).Get(ctx)
}
