// Package proxy implements the terminal routing filters: the chain
// filters that actually forward an exchange to its backend over HTTP(S),
// WebSocket, or in-process. The response writer that streams the captured
// response back to the client lives in package chain.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/gatewayerrors"
	"github.com/skygate/gateway/header"
)

// HttpFilter is the terminal routing filter for the "http" and "https"
// schemes: it builds an outbound request from ex.RequestURL,
// strips hop-by-hop headers, forwards the body, and captures the response
// into CLIENT_RESPONSE for the response-writer filter to stream out.
type HttpFilter struct {
	Client *http.Client
}

func NewHttpFilter(client *http.Client) *HttpFilter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HttpFilter{Client: client}
}

func (f *HttpFilter) handles(ex *exchange.Exchange) bool {
	if ex.RequestURL == nil {
		return false
	}
	switch ex.RequestURL.Scheme {
	case "http", "https":
		return true
	}
	return false
}

func (f *HttpFilter) Filter(ctx context.Context, ex *exchange.Exchange, next chain.Next) async.Completion[chain.Signal] {
	if ex.AlreadyRouted() || isUpgradeRequest(ex.Request) || !f.handles(ex) {
		return next(ctx, ex)
	}
	if !ex.MarkAlreadyRouted() {
		return next(ctx, ex)
	}

	return async.Go(ctx, func(ctx context.Context) (chain.Signal, error) {
		if err := f.forward(ctx, ex); err != nil {
			return chain.Signal{}, err
		}
		c := next(ctx, ex)
		_, err := c.Get(ctx)
		return chain.Signal{}, err
	})
}

func (f *HttpFilter) forward(ctx context.Context, ex *exchange.Exchange) error {
	outReq, err := http.NewRequestWithContext(ctx, ex.Request.Method, ex.RequestURL.String(), ex.Request.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", gatewayerrors.ErrBadGateway, err)
	}
	outReq.Header = ex.Request.Header.Clone()
	header.Chain(outReq.Header, header.Request, header.StripHopByHop)

	if ex.PreserveHost {
		outReq.Host = ex.Request.Host
	} else {
		outReq.Host = ex.RequestURL.Host
	}

	resp, err := f.Client.Do(outReq)
	if err != nil {
		var netErr net.Error
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return fmt.Errorf("%w: %v", gatewayerrors.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", gatewayerrors.ErrBadGateway, err)
	}

	header.Chain(resp.Header, header.Response, header.StripHopByHop)
	ex.OriginalResponseContentType = resp.Header.Get("Content-Type")
	ex.ClientResponse = resp
	return nil
}

// AsOrdered wraps HttpFilter as the chain's HTTP terminal OrderedFilter,
// at LowestPrecedence.
func (f *HttpFilter) AsOrdered() chain.OrderedFilter {
	return chain.OrderedFilter{Order: chain.LowestPrecedence, Name: "httpRouting", Filter: f.Filter}
}
