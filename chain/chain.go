// Package chain implements the filter chain executor: an ordered pipeline
// of global and per-route filters wrapping the terminal routing filter,
// plus the order constants used to place terminal filters at the tail.
package chain

import (
	"context"
	"math"
	"sort"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/exchange"
)

// Signal is the chain's completion payload: filters carry no return value,
// only success or failure.
type Signal struct{}

// Next advances the chain by one filter. It is what a GatewayFilter calls,
// at most once, to delegate to the rest of the chain.
type Next func(ctx context.Context, ex *exchange.Exchange) async.Completion[Signal]

// Filter is a GatewayFilter: it may mutate the exchange, and it
// may invoke next zero or one time. Pre-phase work runs before calling
// next; post-phase work runs in a continuation composed onto whatever next
// returns.
type Filter func(ctx context.Context, ex *exchange.Exchange, next Next) async.Completion[Signal]

// OrderedFilter pairs a Filter with the integer order used to sort it into
// the chain: filters carry integer order, sorted ascending and stable.
type OrderedFilter struct {
	Order  int
	Name   string
	Filter Filter
}

// Order constants for the terminal routing filters: the HTTP/
// forward terminal filter runs last (LowestPrecedence), the WebSocket
// terminal filter runs just before it so it can claim protocol upgrades
// first. A large sentinel is used here instead of math.MaxInt itself so
// that the response-writer tail filter can still be given a strictly
// larger order and run after the terminal filter without overflowing.
const (
	LowestPrecedence    = math.MaxInt / 2
	WebSocketPrecedence = LowestPrecedence - 1
	ResponseWriterOrder = LowestPrecedence + 1
)

// Build merges global and route-specific filters, stable-sorting by
// ascending order. Non-ordered filters (Order unset, i.e. zero) are
// assigned an incrementing order starting at position+1.
func Build(global, route []OrderedFilter) []OrderedFilter {
	all := make([]OrderedFilter, 0, len(global)+len(route))
	all = append(all, global...)
	all = append(all, route...)

	for i := range all {
		if all[i].Order == 0 {
			all[i].Order = i + 1
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Order < all[j].Order })
	return all
}

// execChain is a single-use chain object, not shared across concurrent
// requests. Each call to New returns a fresh one.
type execChain struct {
	filters []OrderedFilter
	pos     int
}

// New builds the entry point (Next) of a filter chain. Calling the
// returned Next runs filters[0], which may call the Next passed to it to
// continue to filters[1], and so on; past the last filter, the chain
// resolves successfully and does nothing further.
func New(filters []OrderedFilter) Next {
	c := &execChain{filters: filters}
	return c.advance
}

func (c *execChain) advance(ctx context.Context, ex *exchange.Exchange) async.Completion[Signal] {
	if c.pos >= len(c.filters) {
		return async.Done(Signal{}, nil)
	}
	f := c.filters[c.pos]
	c.pos++
	return f.Filter(ctx, ex, c.advance)
}

// Run executes the chain and blocks for its result, for callers (the
// routing handler, tests) that don't need to compose further.
func Run(ctx context.Context, filters []OrderedFilter, ex *exchange.Exchange) error {
	_, err := New(filters)(ctx, ex).Get(ctx)
	return err
}
