package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the metering service.
type Config struct {
	HTTPPort string

	// JWTSecret signs and verifies end-user identity tokens
	JWTSecret []byte

	// ServiceKeyHash is the bcrypt hash of the pipeline service key.
	// Empty disables the pipeline endpoints (reserve/debit/release).
	ServiceKeyHash string

	Database DatabaseConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Ledger   LedgerConfig
	Cache    CacheConfig
	Pricing  PricingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// QueueConfig holds usage-event queue settings
type QueueConfig struct {
	UseRedis     bool
	BatchSize    int
	BatchTimeout time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// LedgerConfig holds ledger behavior settings
type LedgerConfig struct {
	// BootstrapMin is the guaranteed minimum balance granted to every
	// account on bootstrap
	BootstrapMin int64

	// SnapshotTTL is how long cached account snapshots stay valid
	SnapshotTTL time.Duration
}

// PricingConfig overrides selected pricing manifest scalars. Zero or
// empty values keep the compiled-in defaults. Any rate change must ship
// with a new PRICING_VERSION so clients re-sync.
type PricingConfig struct {
	Version               string
	QuantumSeconds        int
	MinBillableSeconds    int
	TokensPerUSD          int64
	VendorCentsPerMillion int64
}

// CacheConfig holds in-process cache settings
type CacheConfig struct {
	AccountCacheSize int
	AccountCacheTTL  time.Duration
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvInt64(key string, defaultValue int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HTTPPort:       getEnvString("HTTP_PORT", "8080"),
		JWTSecret:      []byte(getEnvString("JWT_SECRET", "supersecretkey")),
		ServiceKeyHash: getEnvString("SERVICE_KEY_HASH", ""),
		Database: DatabaseConfig{
			URL:             dbURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Queue: QueueConfig{
			UseRedis:     getEnvString("QUEUE_USE_REDIS", "false") == "true",
			BatchSize:    getEnvInt("QUEUE_BATCH_SIZE", 100),
			BatchTimeout: getEnvDuration("QUEUE_BATCH_TIMEOUT", 5*time.Second),
			MaxRetries:   getEnvInt("QUEUE_MAX_RETRIES", 3),
			RetryBackoff: getEnvDuration("QUEUE_RETRY_BACKOFF", 1*time.Second),
		},
		Ledger: LedgerConfig{
			BootstrapMin: getEnvInt64("LEDGER_BOOTSTRAP_MIN", 500),
			SnapshotTTL:  getEnvDuration("LEDGER_SNAPSHOT_TTL", 15*time.Second),
		},
		Cache: CacheConfig{
			AccountCacheSize: getEnvInt("CACHE_ACCOUNT_SIZE", 1000),
			AccountCacheTTL:  getEnvDuration("CACHE_ACCOUNT_TTL", 30*time.Second),
		},
		Pricing: PricingConfig{
			Version:               getEnvString("PRICING_VERSION", ""),
			QuantumSeconds:        getEnvInt("PRICING_QUANTUM_SECONDS", 0),
			MinBillableSeconds:    getEnvInt("PRICING_MIN_BILLABLE_SECONDS", 0),
			TokensPerUSD:          getEnvInt64("PRICING_TOKENS_PER_USD", 0),
			VendorCentsPerMillion: getEnvInt64("PRICING_VENDOR_CENTS_PER_MILLION", 0),
		},
	}

	return cfg, nil
}
