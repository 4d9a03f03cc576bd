package ratelimit

import (
	"errors"
	"time"
)

const (
	// DefaultPrefix namespaces limiter keys in Redis
	DefaultPrefix = "luckydraw:rl"
	// MinBucketTTL keeps idle buckets from expiring between refills
	MinBucketTTL = time.Minute
)

// Response headers
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderRetryAfter = "Retry-After"
)

const (
	ErrMsgTooManyRequests = "Too many requests. Please try again later."
	CodeRateLimited       = "RATE_LIMITED"
)

const (
	LogMsgLimiterUnavailable = "Rate limiter unavailable, allowing request"
	LogMsgUnexpectedResult   = "Unexpected rate limiter script result, allowing request"
	LogMsgRequestLimited     = "Request rate limited"
)

var errUnexpectedResult = errors.New("unexpected rate limiter script result")
