package config

import "time"

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Defaults
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"
	DefaultEnvironment = "dev"
	DefaultServiceName = "luckydraw"
	DefaultVersion     = "dev"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultSpinMaxCommitAttempts = 3
	DefaultCampaignTZOffsetHours = 7
	DefaultEventCacheSize        = 128
	DefaultEventCacheTTL         = 30 * time.Second

	DefaultRateLimitCapacity  = 10
	DefaultRateLimitPerSecond = 2.0

	DefaultAMQPQueue      = "spin.completed"
	DefaultEventWorkers   = 4
	DefaultEventQueueSize = 256

	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
)
