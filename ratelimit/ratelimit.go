// Package ratelimit implements a distributed token-bucket rate limiter: an
// atomic refill-and-take operation keyed by a hash-tagged identifier, so
// every key for a given bucket lands on the same Redis Cluster slot,
// backed by a Store interface with a Redis implementation and an
// in-memory fallback for tests and single-instance use.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Result is the outcome of one token-bucket decision: whether
// the request is allowed, how many tokens remain, and the values needed to
// render X-RateLimit-* response headers.
type Result struct {
	Allowed    bool
	TokensLeft int64
	MaxHits    int64
	Window     time.Duration
}

// Headers renders the standard X-RateLimit-* response headers for r,
// matching the header set spring-cloud-gateway's RedisRateLimiter emits.
func (r Result) Headers() map[string]string {
	h := map[string]string{
		"X-RateLimit-Limit":          fmt.Sprintf("%d", r.MaxHits),
		"X-RateLimit-Burst-Capacity": fmt.Sprintf("%d", r.MaxHits),
	}
	if seconds := r.Window.Seconds(); seconds > 0 {
		h["X-RateLimit-Replenish-Rate"] = fmt.Sprintf("%d", int64(float64(r.MaxHits)/seconds))
	}
	if r.TokensLeft >= 0 {
		h["X-RateLimit-Remaining"] = fmt.Sprintf("%d", r.TokensLeft)
	}
	if !r.Allowed {
		h["Retry-After"] = fmt.Sprintf("%d", int(r.Window.Seconds()))
	}
	return h
}

// Key builds the hash-tagged store key for bucket id:
// "request_rate_limiter.{<id>}.tokens" co-locates every key for the same
// bucket on one Redis Cluster slot.
func Key(id, field string) string {
	return fmt.Sprintf("request_rate_limiter.{%s}.%s", id, field)
}

// Store performs the atomic token-bucket check-and-decrement for a bucket
// keyed by id, allowing at most maxHits tokens per window, refilling
// linearly over time. Implementations must perform the read-refill-take
// sequence atomically, whether via a Redis server-side script or an
// equivalent local critical section.
type Store interface {
	Allow(ctx context.Context, id string, maxHits int64, window time.Duration) (Result, error)
}
