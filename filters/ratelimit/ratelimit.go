// Package ratelimit wires the distributed token-bucket algorithm (package
// ratelimit) into a route-level chain.Filter: the "RequestRateLimiter"
// filter.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/skygate/gateway/async"
	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/exchange"
	"github.com/skygate/gateway/ratelimit"
)

// KeyResolver derives the rate-limit bucket key from an exchange, e.g. the
// client IP, an API key header, or a fixed per-route string.
type KeyResolver func(ex *exchange.Exchange) string

// RemoteAddrKey resolves the bucket key to the client's remote address.
func RemoteAddrKey(ex *exchange.Exchange) string { return ex.Request.RemoteAddr }

// HeaderKey resolves the bucket key to the value of the named request
// header, letting routes rate-limit per API key or per tenant.
func HeaderKey(name string) KeyResolver {
	return func(ex *exchange.Exchange) string { return ex.Request.Header.Get(name) }
}

// Config is a RequestRateLimiter filter's normalized configuration.
type Config struct {
	MaxHits        int64
	Window         time.Duration
	StatusCode     int
	DenyEmptyKey   bool
	EmptyKeyStatus int
	Key            KeyResolver
}

// New builds the RequestRateLimiter chain.Filter: it resolves the bucket
// key, asks store whether the bucket still has capacity, merges the
// X-RateLimit-* headers onto the exchange's response headers, and on
// denial sets the response status, writes the status and headers to the
// client itself, and ends the chain without calling next (so the
// response-writer tail filter does not run).
func New(store ratelimit.Store, id string, cfg Config) chain.Filter {
	statusCode := cfg.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusTooManyRequests
	}
	emptyKeyStatus := cfg.EmptyKeyStatus
	if emptyKeyStatus == 0 {
		emptyKeyStatus = http.StatusForbidden
	}

	deny := func(ex *exchange.Exchange, status int) {
		ex.ResponseStatus = status
		h := ex.ResponseWriter.Header()
		for k, vs := range ex.ResponseHeader {
			h[k] = vs
		}
		ex.ResponseWriter.WriteHeader(status)
		ex.MarkServed()
	}

	return func(ctx context.Context, ex *exchange.Exchange, next chain.Next) async.Completion[chain.Signal] {
		key := cfg.Key(ex)
		if key == "" {
			if cfg.DenyEmptyKey {
				deny(ex, emptyKeyStatus)
				return async.Done(chain.Signal{}, nil)
			}
			return next(ctx, ex)
		}

		return async.Go(ctx, func(ctx context.Context) (chain.Signal, error) {
			bucket := id + "." + key
			res, err := store.Allow(ctx, bucket, cfg.MaxHits, cfg.Window)
			if err != nil {
				return chain.Signal{}, err
			}

			for k, v := range res.Headers() {
				ex.ResponseHeader.Set(k, v)
			}

			if !res.Allowed {
				deny(ex, statusCode)
				return chain.Signal{}, nil
			}

			c := next(ctx, ex)
			_, err = c.Get(ctx)
			return chain.Signal{}, err
		})
	}
}

func parseMaxHits(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
