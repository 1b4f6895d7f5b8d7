// Package exchange implements the per-request mutable context threaded
// through predicates and filters.
//
// Modeled as a struct with explicit typed fields for the well-known
// attributes, plus a string-keyed extension map for everything else: no
// reflection, filters declare the attributes they read/write up front.
package exchange

import (
	"net/http"
	"net/url"
	"sync"
)

// Well-known attribute keys, kept for filters that prefer the generic
// Attr/SetAttr accessors over the typed fields (e.g. out-of-core filters
// that only know the string-keyed contract).
const (
	GatewayRequestURL         = "GATEWAY_REQUEST_URL"
	GatewayOriginalRequestURL = "GATEWAY_ORIGINAL_REQUEST_URL"
	GatewayRoute              = "GATEWAY_ROUTE"
	PreserveHostHeader        = "PRESERVE_HOST_HEADER"
	ClientResponse            = "CLIENT_RESPONSE"
	OriginalResponseCT        = "ORIGINAL_RESPONSE_CONTENT_TYPE"
	AlreadyRouted             = "ALREADY_ROUTED"
)

// Exchange is the per-request context. One Exchange is created per inbound
// request and released when the request completes or fails; it is never
// shared across concurrent requests.
type Exchange struct {
	// Request is the immutable (methodwise) inbound request view. Filters
	// may still mutate its Header/URL/Host in place.
	Request *http.Request

	// ResponseWriter is the real client-facing writer. It is written by
	// the response-writer tail filter, or directly by a filter that ends
	// the exchange itself (a rate-limit rejection, a WebSocket hijack).
	ResponseWriter http.ResponseWriter

	// RequestURL is GATEWAY_REQUEST_URL: the current forwarding target,
	// mutable by filters (e.g. RewritePath, PrefixPath), read by the
	// terminal routing filters.
	RequestURL *url.URL

	// OriginalRequestURLs is GATEWAY_ORIGINAL_REQUEST_URL: every URL this
	// exchange targeted before the current RequestURL, oldest first.
	// Append-only.
	OriginalRequestURLs []*url.URL

	// PreserveHost is PRESERVE_HOST_HEADER: when true, terminal HTTP
	// filters forward the inbound Host header verbatim instead of the
	// upstream's.
	PreserveHost bool

	// ClientResponse is CLIENT_RESPONSE: the upstream response handle
	// captured by a terminal routing filter, awaiting the deferred write
	// performed by the response-writer filter.
	ClientResponse *http.Response

	// OriginalResponseContentType is ORIGINAL_RESPONSE_CONTENT_TYPE,
	// captured verbatim before any filter mutates Content-Type.
	OriginalResponseContentType string

	// ResponseStatus and ResponseHeader make up the mutable response
	// builder filters act on before the body is committed.
	ResponseStatus int
	ResponseHeader http.Header

	mu            sync.Mutex
	alreadyRouted bool
	served        bool
	attrs         map[string]interface{}
	route         interface{}
}

// New builds an Exchange for an inbound request. The initial RequestURL is
// a copy of the request's own URL; the routing handler overwrites it with
// the matched route's backend URI once a route is selected.
func New(w http.ResponseWriter, r *http.Request) *Exchange {
	u := *r.URL
	return &Exchange{
		Request:        r,
		ResponseWriter: w,
		RequestURL:     &u,
		ResponseHeader: make(http.Header),
		attrs:          make(map[string]interface{}),
	}
}

// SetRequestURL records the current RequestURL onto OriginalRequestURLs
// before replacing it, maintaining the append-only history contract.
func (ex *Exchange) SetRequestURL(u *url.URL) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.RequestURL != nil {
		ex.OriginalRequestURLs = append(ex.OriginalRequestURLs, ex.RequestURL)
	}
	ex.RequestURL = u
}

// AlreadyRouted reports whether a terminal routing filter already forwarded
// this exchange. At most one terminal filter may forward a given request.
func (ex *Exchange) AlreadyRouted() bool {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.alreadyRouted
}

// MarkAlreadyRouted sets the ALREADY_ROUTED flag. It returns false if the
// flag was already set, letting a terminal filter detect a racing sibling
// even when route evaluation happened concurrently.
func (ex *Exchange) MarkAlreadyRouted() (first bool) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.alreadyRouted {
		return false
	}
	ex.alreadyRouted = true
	return true
}

// Served reports whether the chain has already produced a terminal
// response (e.g. a rate-limit rejection, or a 404 from the routing
// handler) so that no later filter attempts to write again.
func (ex *Exchange) Served() bool {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.served
}

// MarkServed flags the exchange as served.
func (ex *Exchange) MarkServed() {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.served = true
}

// Attr reads a value from the string-keyed extension map used by
// out-of-core filters.
func (ex *Exchange) Attr(key string) (interface{}, bool) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	v, ok := ex.attrs[key]
	return v, ok
}

// SetAttr writes a value into the extension map.
func (ex *Exchange) SetAttr(key string, value interface{}) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.attrs[key] = value
}

// SetRoute and Route store/retrieve GATEWAY_ROUTE as an opaque value: the
// concrete type lives in package routing, which would otherwise import
// exchange cyclically. Callers in package routing wrap these with a typed
// accessor (routing.RouteFromExchange).
func (ex *Exchange) SetRoute(r interface{}) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.route = r
}

func (ex *Exchange) Route() interface{} {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.route
}
