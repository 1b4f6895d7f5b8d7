package proxy

import (
	"errors"
	"net/http"
	"time"

	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/gatewayerrors"
)

// Proxy bundles the terminal routing filters into the ordered
// set a routing.Handler installs as its global filters' tail, ahead of the
// response-writer filter.
type Proxy struct {
	http    *HttpFilter
	ws      *WebSocketFilter
	forward *ForwardFilter
}

// New builds a Proxy whose HTTP terminal filter uses client (or a new
// http.Client with timeout as its deadline, if client is nil) and
// whose forward terminal filter dispatches to handlers.
func New(client *http.Client, timeout time.Duration, handlers ForwardRegistry) *Proxy {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Proxy{
		http:    NewHttpFilter(client),
		ws:      NewWebSocketFilter(),
		forward: NewForwardFilter(handlers),
	}
}

// Filters returns the terminal routing filters in the order the chain
// executor expects to sort them: WebSocket before the two LowestPrecedence
// schemes, which never both match the same exchange.
func (p *Proxy) Filters() []chain.OrderedFilter {
	return []chain.OrderedFilter{
		p.ws.AsOrdered(),
		p.http.AsOrdered(),
		p.forward.AsOrdered(),
	}
}

// StatusForError maps a terminal filter's error to its response status:
// 504 for upstream timeout, 502 for any other connection failure, 404 for
// no matching route, 500 otherwise.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, gatewayerrors.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, gatewayerrors.ErrBadGateway):
		return http.StatusBadGateway
	case errors.Is(err, gatewayerrors.ErrNoRoute):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
