package chain

import (
	"context"
	"io"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/exchange"
)

// ResponseWriterFilter is the deferred response-writeback filter. It sits
// at the tail of the chain (Order = ResponseWriterOrder), so it runs after
// every preceding filter's pre-phase work and after the terminal filter
// has captured the upstream response. Post-phase work that other filters
// compose onto the completion returned by next runs after this filter has
// written the response, so it does not change what the client receives.
// When CLIENT_RESPONSE is present and the exchange is not yet served it
// streams the captured upstream response into the real
// http.ResponseWriter; otherwise it writes nothing. It does not run at all
// when an earlier filter ends the chain without calling next.
func ResponseWriterFilter(ctx context.Context, ex *exchange.Exchange, next Next) async.Completion[Signal] {
	if ex.ClientResponse != nil && !ex.Served() {
		writeResponse(ex)
	}
	return next(ctx, ex)
}

func writeResponse(ex *exchange.Exchange) {
	resp := ex.ClientResponse
	defer resp.Body.Close()

	header := ex.ResponseWriter.Header()
	for k, vs := range ex.ResponseHeader {
		header[k] = vs
	}
	for k, vs := range resp.Header {
		if _, already := header[k]; !already {
			header[k] = vs
		}
	}

	status := ex.ResponseStatus
	if status == 0 {
		status = resp.StatusCode
	}
	ex.ResponseWriter.WriteHeader(status)
	io.Copy(ex.ResponseWriter, resp.Body)
	ex.MarkServed()
}

// AsOrdered wraps ResponseWriterFilter as the chain's tail OrderedFilter.
func AsOrdered() OrderedFilter {
	return OrderedFilter{Order: ResponseWriterOrder, Name: "responseWriter", Filter: ResponseWriterFilter}
}
