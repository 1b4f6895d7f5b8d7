// Package header implements hop-by-hop header filtering: stripping
// headers that are meaningless to forward across a proxy hop, plus the
// WebSocket-specific handshake header rules.
package header

import (
	"net/http"
	"strings"
)

// Direction distinguishes request-bound from response-bound header
// processing, since some filters (e.g. the WebSocket handshake rules)
// apply only on one side of the exchange.
type Direction int

const (
	Request Direction = iota
	Response
)

// Filter mutates headers for one direction of the exchange and returns the
// (possibly unchanged) result. Filters are pure functions over a header set,
// not over the exchange, so they compose independently of the chain.
type Filter func(h http.Header, dir Direction) http.Header

// HopByHop lists the headers defined by RFC 7230 §6.1 as connection-specific
// and therefore never forwarded across a proxy hop.
var HopByHop = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// StripHopByHop removes HopByHop headers, plus any header named by h's own
// Connection header (RFC 7230 §6.1), from h. It applies to both
// directions.
func StripHopByHop(h http.Header, dir Direction) http.Header {
	for _, k := range connectionTokens(h) {
		h.Del(k)
	}
	for _, k := range HopByHop {
		h.Del(k)
	}
	return h
}

func connectionTokens(h http.Header) []string {
	var tokens []string
	for _, v := range h.Values("Connection") {
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// StripWebSocketHandshake drops Sec-WebSocket-* request headers once the
// upgrade has already been negotiated by the terminal routing filter, so
// they aren't forwarded a second time on a later hop.
func StripWebSocketHandshake(h http.Header, dir Direction) http.Header {
	if dir != Request {
		return h
	}
	for k := range h {
		if strings.HasPrefix(strings.ToLower(k), "sec-websocket-") {
			h.Del(k)
		}
	}
	return h
}

// Chain runs filters in order over h and returns the final result.
func Chain(h http.Header, dir Direction, filters ...Filter) http.Header {
	for _, f := range filters {
		h = f(h, dir)
	}
	return h
}
