package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// tokenBucketScript implements the atomic token-bucket refill-and-take
// operation: read the stored token count and timestamp,
// refill linearly for the elapsed time capped at maxHits, then take one
// token if available. Runs as a single EVAL so the read-modify-write is
// atomic even when the keys live on a shared Redis Cluster slot (the
// hash-tag in Key ensures both KEYS land on that slot).
const tokenBucketScript = `
local tokens_key = KEYS[1]
local timestamp_key = KEYS[2]
local max_hits = tonumber(ARGV[1])
local window_seconds = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local tokens = tonumber(redis.call("GET", tokens_key))
local last = tonumber(redis.call("GET", timestamp_key))

if tokens == nil then
  tokens = max_hits
  last = now
end

local elapsed = now - last
if elapsed > 0 then
  local refill = elapsed * (max_hits / window_seconds)
  tokens = math.min(max_hits, tokens + refill)
  last = now
end

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("SET", tokens_key, tokens, "EX", window_seconds * 2)
redis.call("SET", timestamp_key, last, "EX", window_seconds * 2)

return {allowed, tostring(tokens)}
`

// RedisStore is the distributed Store backed by a Redis (or Redis Cluster)
// client, atomically refilling and taking tokens via a server-side script.
type RedisStore struct {
	client redis.UniversalClient
	script *redis.Script
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, script: redis.NewScript(tokenBucketScript)}
}

// Allow implements Store. On a Redis failure it fails open: allowed=true,
// tokensLeft=-1, logged rather than returned as a hard error, so a rate
// limiter outage never blocks traffic.
func (s *RedisStore) Allow(ctx context.Context, id string, maxHits int64, window time.Duration) (Result, error) {
	now := float64(time.Now().UnixMilli()) / 1000
	keys := []string{Key(id, "tokens"), Key(id, "timestamp")}
	res, err := s.script.Run(ctx, s.client, keys, maxHits, window.Seconds(), now).Result()
	if err != nil {
		logrus.WithError(err).WithField("bucket", id).Warn("rate limiter store unreachable, failing open")
		return Result{Allowed: true, TokensLeft: -1, MaxHits: maxHits, Window: window}, nil
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		logrus.WithField("bucket", id).Warn("rate limiter script returned an unexpected shape, failing open")
		return Result{Allowed: true, TokensLeft: -1, MaxHits: maxHits, Window: window}, nil
	}

	allowed, _ := values[0].(int64)
	tokensLeft := parseTokens(values[1])

	return Result{
		Allowed:    allowed == 1,
		TokensLeft: tokensLeft,
		MaxHits:    maxHits,
		Window:     window,
	}, nil
}

func parseTokens(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return -1
	}
	var whole int64
	var frac bool
	for _, c := range s {
		if c == '.' {
			frac = true
			continue
		}
		if frac {
			break
		}
		if c < '0' || c > '9' {
			return -1
		}
		whole = whole*10 + int64(c-'0')
	}
	return whole
}
