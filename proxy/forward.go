package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/gatewayerrors"
)

// ForwardRegistry resolves a "forward:" URI's host component to an
// in-process http.Handler, letting a route dispatch without a network hop.
type ForwardRegistry map[string]http.Handler

// ForwardFilter is the terminal routing filter for the "forward" scheme: it
// dispatches the request directly to a registered in-process handler,
// capturing its output the same way HttpFilter captures a network response.
type ForwardFilter struct {
	Handlers ForwardRegistry
}

func NewForwardFilter(handlers ForwardRegistry) *ForwardFilter {
	return &ForwardFilter{Handlers: handlers}
}

func (f *ForwardFilter) handles(ex *exchange.Exchange) bool {
	return ex.RequestURL != nil && ex.RequestURL.Scheme == "forward"
}

func (f *ForwardFilter) Filter(ctx context.Context, ex *exchange.Exchange, next chain.Next) async.Completion[chain.Signal] {
	if ex.AlreadyRouted() || !f.handles(ex) {
		return next(ctx, ex)
	}
	if !ex.MarkAlreadyRouted() {
		return next(ctx, ex)
	}

	return async.Go(ctx, func(ctx context.Context) (chain.Signal, error) {
		if err := f.dispatch(ex); err != nil {
			return chain.Signal{}, err
		}
		c := next(ctx, ex)
		_, err := c.Get(ctx)
		return chain.Signal{}, err
	})
}

func (f *ForwardFilter) dispatch(ex *exchange.Exchange) error {
	name := ex.RequestURL.Host
	handler, ok := f.Handlers[name]
	if !ok {
		return fmt.Errorf("%w: no forward target registered for %q", gatewayerrors.ErrNoRoute, name)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, ex.Request)

	result := rec.Result()
	ex.OriginalResponseContentType = result.Header.Get("Content-Type")
	ex.ClientResponse = result
	return nil
}

// AsOrdered wraps ForwardFilter as the chain's forward terminal
// OrderedFilter, sharing LowestPrecedence with HttpFilter since the two
// schemes never both match the same exchange.
func (f *ForwardFilter) AsOrdered() chain.OrderedFilter {
	return chain.OrderedFilter{Order: chain.LowestPrecedence, Name: "forwardRouting", Filter: f.Filter}
}
