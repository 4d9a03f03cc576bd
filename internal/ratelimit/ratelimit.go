// Package ratelimit throttles requests with a token bucket kept in Redis so
// every API instance shares one budget per client.
package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/luckydraw/internal/logger"
	"github.com/osse101/luckydraw/internal/metrics"
)

// tokenBucket refills refill_tokens every interval_ms up to capacity and
// takes one token per call. Returns {allowed, tokens_left, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// Config sizes the bucket
type Config struct {
	Capacity  int
	PerSecond float64
	Prefix    string
}

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter is a Redis-backed token bucket
type Limiter struct {
	rdb      redis.Scripter
	capacity int
	interval time.Duration
	ttl      time.Duration
	prefix   string
	now      func() time.Time
}

// New returns a limiter that refills one token every 1/PerSecond seconds
func New(rdb redis.Scripter, cfg Config) *Limiter {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 1
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	interval := time.Duration(float64(time.Second) / cfg.PerSecond)
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ttl := time.Duration(cfg.Capacity) * interval * 2
	if ttl < MinBucketTTL {
		ttl = MinBucketTTL
	}

	return &Limiter{
		rdb:      rdb,
		capacity: cfg.Capacity,
		interval: interval,
		ttl:      ttl,
		prefix:   cfg.Prefix,
		now:      time.Now,
	}
}

// Allow takes a token from key's bucket
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	vals, err := tokenBucket.Run(ctx, l.rdb, []string{l.prefix + ":" + key},
		l.now().UnixMilli(),
		l.capacity,
		1,
		l.interval.Milliseconds(),
		int64(l.ttl/time.Second),
	).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(vals) != 3 {
		return Decision{}, errUnexpectedResult
	}

	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// Middleware rejects requests over budget with 429. Requests pass through
// when Redis cannot be reached.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		key := requestKey(r)

		d, err := l.Allow(r.Context(), key)
		if err != nil {
			if errors.Is(err, errUnexpectedResult) {
				log.Warn(LogMsgUnexpectedResult, "key", key)
			} else {
				log.Warn(LogMsgLimiterUnavailable, "key", key, "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set(HeaderLimit, strconv.Itoa(l.capacity))
		w.Header().Set(HeaderRemaining, strconv.FormatInt(d.Remaining, 10))

		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			metrics.RateLimited.Inc()
			log.Info(LogMsgRequestLimited, "key", key, "retry_after_s", secs)

			w.Header().Set(HeaderRetryAfter, strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": ErrMsgTooManyRequests,
				"code":  CodeRateLimited,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestKey buckets by client IP and route
func requestKey(r *http.Request) string {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if ip == "" {
		ip = "unknown"
	}

	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			route = pattern
		}
	}
	return strings.Join([]string{"ip", ip, "route", r.Method, route}, ":")
}
