package chain

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/exchange"
)

func newEx() *exchange.Exchange {
	return exchange.New(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func passthrough(name string, calls *[]string) Filter {
	return func(ctx context.Context, ex *exchange.Exchange, next Next) async.Completion[Signal] {
		*calls = append(*calls, name+":pre")
		c := next(ctx, ex)
		return async.Then(ctx, c, func(_ context.Context, s Signal) (Signal, error) {
			*calls = append(*calls, name+":post")
			return s, nil
		})
	}
}

func TestChainOrderPreAndPost(t *testing.T) {
	var calls []string
	filters := Build([]OrderedFilter{
		{Order: 1, Name: "a", Filter: passthrough("a", &calls)},
		{Order: 2, Name: "b", Filter: passthrough("b", &calls)},
	}, nil)

	if err := Run(context.Background(), filters, newEx()); err != nil {
		t.Fatal(err)
	}

	want := []string{"a:pre", "b:pre", "b:post", "a:post"}
	if len(calls) != len(want) {
		t.Fatalf("got %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("got %v, want %v", calls, want)
		}
	}
}

func TestChainTerminatesWithoutCallingNext(t *testing.T) {
	var calls []string
	terminator := func(ctx context.Context, ex *exchange.Exchange, next Next) async.Completion[Signal] {
		calls = append(calls, "terminator")
		return async.Done(Signal{}, nil)
	}
	neverCalled := func(ctx context.Context, ex *exchange.Exchange, next Next) async.Completion[Signal] {
		calls = append(calls, "should-not-run")
		return next(ctx, ex)
	}

	filters := Build([]OrderedFilter{
		{Order: 1, Filter: terminator},
		{Order: 2, Filter: neverCalled},
	}, nil)

	if err := Run(context.Background(), filters, newEx()); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0] != "terminator" {
		t.Fatalf("a filter that doesn't call next must stop the chain, got %v", calls)
	}
}

func TestChainPropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := func(ctx context.Context, ex *exchange.Exchange, next Next) async.Completion[Signal] {
		return async.Done(Signal{}, boom)
	}
	filters := Build([]OrderedFilter{{Order: 1, Filter: failing}}, nil)

	err := Run(context.Background(), filters, newEx())
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

// TestIdempotentRouting is the §8 property: after any terminal routing
// filter succeeds, all subsequent terminal routing filters in the same
// exchange are no-ops.
func TestIdempotentRouting(t *testing.T) {
	ex := newEx()
	calls := 0
	terminalLike := func(ctx context.Context, ex *exchange.Exchange, next Next) async.Completion[Signal] {
		if ex.AlreadyRouted() {
			return next(ctx, ex)
		}
		ex.MarkAlreadyRouted()
		calls++
		return next(ctx, ex)
	}

	filters := Build([]OrderedFilter{
		{Order: 1, Filter: terminalLike},
		{Order: 2, Filter: terminalLike},
		{Order: 3, Filter: terminalLike},
	}, nil)

	if err := Run(context.Background(), filters, ex); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("only the first terminal-like filter should have forwarded, got %d calls", calls)
	}
}

func TestResponseWriterFiltersUntouchedWhenNoClientResponse(t *testing.T) {
	ex := newEx()
	filters := []OrderedFilter{AsOrdered()}
	if err := Run(context.Background(), filters, ex); err != nil {
		t.Fatal(err)
	}
	if ex.Served() {
		t.Fatal("response writer must not mark served when there is no CLIENT_RESPONSE")
	}
}
