package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/luckydraw/internal/config"
	"github.com/osse101/luckydraw/internal/ratelimit"
)

// InitializeSpinLimiter returns the spin route middleware and the Redis
// client backing it. Both are nil when REDIS_ADDR is unset.
func InitializeSpinLimiter(cfg *config.Config) (func(http.Handler) http.Handler, *redis.Client) {
	if !cfg.RateLimitEnabled() {
		slog.Info(LogMsgRateLimiterDisabled)
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	limiter := ratelimit.New(rdb, ratelimit.Config{
		Capacity:  cfg.RateLimitCapacity,
		PerSecond: cfg.RateLimitPerSecond,
	})

	slog.Info(LogMsgRateLimiterEnabled,
		"addr", cfg.RedisAddr,
		"capacity", cfg.RateLimitCapacity,
		"per_second", cfg.RateLimitPerSecond)
	return limiter.Middleware, rdb
}
