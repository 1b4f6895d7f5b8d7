package ratelimit

import (
	"fmt"
	"time"

	"github.com/skygate/gateway/chain"
	"github.com/skygate/gateway/ratelimit"
)

// Factory adapts New to the factory.FilterFactory contract,
// so "RequestRateLimiter=20,1m" in a route definition resolves to a
// configured rate-limit filter. Buckets are keyed by the maxHits/window
// pair and the resolved key, not by the route's id: two routes with the
// same pair share buckets.
type Factory struct {
	Store ratelimit.Store
	Key   KeyResolver
}

func (Factory) Name() string                { return "RequestRateLimiter" }
func (Factory) ShortcutFieldOrder() []string { return []string{"maxHits", "window"} }

func (f Factory) Apply(cfg map[string]string) (chain.Filter, error) {
	maxHits, err := parseMaxHits(cfg["maxHits"])
	if err != nil {
		return nil, fmt.Errorf("RequestRateLimiter: invalid maxHits: %w", err)
	}
	window, err := time.ParseDuration(cfg["window"])
	if err != nil {
		return nil, fmt.Errorf("RequestRateLimiter: invalid window: %w", err)
	}

	key := f.Key
	if key == nil {
		key = RemoteAddrKey
	}

	// The bucket group id has no dedicated shortcut slot; routes sharing
	// the same maxHits/window pair intentionally share a bucket group
	// unless a future "group" argument is added to distinguish them.
	id := cfg["maxHits"] + ":" + cfg["window"]
	return New(f.Store, id, Config{MaxHits: maxHits, Window: window, Key: key, DenyEmptyKey: true}), nil
}
