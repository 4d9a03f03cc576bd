package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	// Storage
	StoreDriver string // "postgres" or "memory"
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBMaxConns  int

	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Spin engine
	SpinMaxCommitAttempts int
	CampaignTZOffsetHours int
	EventCacheSize        int
	EventCacheTTL         time.Duration

	// Rate limiting (disabled when RedisAddr is empty)
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitCapacity  int
	RateLimitPerSecond float64

	// Spin event publishing (in-memory bus only when AMQPURL is empty)
	AMQPURL        string
	AMQPQueue      string
	EventWorkers   int
	EventQueueSize int

	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	// TrustedProxies may set X-Forwarded-For
	TrustedProxies []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "luckydraw"),
		DBMaxConns:  getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),

		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		SpinMaxCommitAttempts: getEnvAsInt("SPIN_MAX_COMMIT_ATTEMPTS", DefaultSpinMaxCommitAttempts),
		CampaignTZOffsetHours: getEnvAsInt("CAMPAIGN_TZ_OFFSET_HOURS", DefaultCampaignTZOffsetHours),
		EventCacheSize:        getEnvAsInt("EVENT_CACHE_SIZE", DefaultEventCacheSize),
		EventCacheTTL:         getEnvAsDuration("EVENT_CACHE_TTL", DefaultEventCacheTTL),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		RateLimitCapacity:  getEnvAsInt("RATE_LIMIT_CAPACITY", DefaultRateLimitCapacity),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", DefaultRateLimitPerSecond),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPQueue:      getEnv("AMQP_QUEUE", DefaultAMQPQueue),
		EventWorkers:   getEnvAsInt("EVENT_WORKERS", DefaultEventWorkers),
		EventQueueSize: getEnvAsInt("EVENT_QUEUE_SIZE", DefaultEventQueueSize),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultEventDeadLetterPath),

		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges that cannot be defaulted silently
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		return fmt.Errorf("invalid STORE_DRIVER %q: must be %q or %q", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}
	if c.SpinMaxCommitAttempts < 1 {
		return fmt.Errorf("SPIN_MAX_COMMIT_ATTEMPTS must be at least 1, got %d", c.SpinMaxCommitAttempts)
	}
	if c.CampaignTZOffsetHours < -12 || c.CampaignTZOffsetHours > 14 {
		return fmt.Errorf("CAMPAIGN_TZ_OFFSET_HOURS out of range: %d", c.CampaignTZOffsetHours)
	}
	if c.EventCacheSize < 1 {
		return fmt.Errorf("EVENT_CACHE_SIZE must be positive, got %d", c.EventCacheSize)
	}
	if c.EventWorkers < 1 || c.EventQueueSize < 1 {
		return fmt.Errorf("EVENT_WORKERS and EVENT_QUEUE_SIZE must be positive")
	}
	if c.EventMaxRetries < 0 {
		return fmt.Errorf("EVENT_MAX_RETRIES must not be negative, got %d", c.EventMaxRetries)
	}
	if c.RateLimitCapacity < 1 || c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_CAPACITY and RATE_LIMIT_PER_SECOND must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the integer value of key, or defaultValue when unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsFloat returns the float value of key, or defaultValue when unset or malformed
func getEnvAsFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsDuration parses a Go duration string, or returns defaultValue
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// splitList parses a comma separated list, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// RateLimitEnabled reports whether a Redis backend is configured
func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != ""
}

// AMQPEnabled reports whether spin events should be forwarded to a broker
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}
