package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"mediameter/internal/config"
	"mediameter/internal/estimate"
	"mediameter/internal/ledger"
	"mediameter/internal/middleware"
	"mediameter/internal/pricing"
	"mediameter/internal/queue"
	"mediameter/internal/storage"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	DB        *storage.DB
	Redis     *storage.RedisClient
	Manifest  *pricing.Manifest
	Estimator *estimate.Estimator
	Ledger    *ledger.Service

	// Queue worker for async usage-event persistence
	UsageWorker *storage.UsageQueueWorker
}

// NewRouter creates an HTTP router with all dependencies wired up
func NewRouter(cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	// Initialize database
	db, err := storage.NewDB(storage.DBConfig{
		DSN:              cfg.Database.URL,
		MaxOpenConns:     cfg.Database.MaxOpenConns,
		MaxIdleConns:     cfg.Database.MaxIdleConns,
		ConnMaxLifetime:  cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:  cfg.Database.ConnMaxIdleTime,
		AccountCacheSize: cfg.Cache.AccountCacheSize,
		AccountCacheTTL:  cfg.Cache.AccountCacheTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	// Initialize Redis client
	redisClient, err := storage.NewRedisClient(storage.RedisConfig{
		Address:      cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Pricing manifest and estimator. Overrides are applied before the
	// manifest is shared; it is immutable from here on.
	manifest := pricing.Default()
	if v := cfg.Pricing.Version; v != "" {
		manifest.Version = v
	}
	if v := cfg.Pricing.QuantumSeconds; v > 0 {
		manifest.QuantumSeconds = v
	}
	if v := cfg.Pricing.MinBillableSeconds; v > 0 {
		manifest.MinBillableSeconds = v
	}
	if v := cfg.Pricing.TokensPerUSD; v > 0 {
		manifest.TokensPerUSD = v
	}
	if v := cfg.Pricing.VendorCentsPerMillion; v > 0 {
		manifest.VendorCentsPerMillion = v
	}
	estimator := estimate.New(manifest)

	// Usage-event queue and worker
	usageQueueCfg := queue.DefaultConfig("usage")
	usageQueueCfg.UseRedis = cfg.Queue.UseRedis
	usageQueueCfg.BatchSize = cfg.Queue.BatchSize
	usageQueueCfg.BatchTimeout = cfg.Queue.BatchTimeout
	usageQueueCfg.MaxRetries = cfg.Queue.MaxRetries
	usageQueueCfg.RetryBackoff = cfg.Queue.RetryBackoff

	var usageQueue queue.Queue
	var usageDLQ queue.DeadLetterQueue
	if cfg.Queue.UseRedis {
		usageQueueCfg.RedisAddr = cfg.Redis.Address
		usageQueueCfg.RedisPassword = cfg.Redis.Password
		usageQueueCfg.RedisDB = cfg.Redis.DB
		usageQueue, err = queue.NewRedisQueue(usageQueueCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create usage queue: %w", err)
		}
		usageDLQ, err = queue.NewRedisDeadLetterQueue(usageQueueCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create usage DLQ: %w", err)
		}
	} else {
		usageQueue = queue.NewMemoryQueue(usageQueueCfg)
		usageDLQ = queue.NewMemoryDeadLetterQueue()
	}

	usageWorker := storage.NewUsageQueueWorker(usageQueue, usageDLQ, db, usageQueueCfg)
	usageWorker.Start(context.Background())

	// Ledger service with snapshot cache
	snapshotCache := ledger.NewSnapshotCache(redisClient.Client(), cfg.Ledger.SnapshotTTL)
	ledgerService := ledger.NewService(storage.NewLedgerRepository(db), snapshotCache, usageWorker)

	deps := &Dependencies{
		DB:          db,
		Redis:       redisClient,
		Manifest:    manifest,
		Estimator:   estimator,
		Ledger:      ledgerService,
		UsageWorker: usageWorker,
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	return mux, deps, nil
}

func registerRoutes(mux *http.ServeMux, deps *Dependencies, cfg *config.Config) {
	userAuth := middleware.UserAuthMiddleware(cfg)
	serviceKey := middleware.ServiceKeyMiddleware(cfg)

	// Pricing manifest - public
	pricingHandler := NewPricingHandler(deps.Manifest)
	mux.HandleFunc("/v1/pricing/manifest", pricingHandler.Manifest)

	// User-facing ledger endpoints - bearer token
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Manifest, cfg)
	mux.Handle("/v1/ledger/bootstrap", userAuth(http.HandlerFunc(ledgerHandler.Bootstrap)))
	mux.Handle("/v1/billing/sync", userAuth(http.HandlerFunc(ledgerHandler.BillingSync)))

	// Estimation - bearer token
	estimateHandler := NewEstimateHandler(deps.Estimator, deps.Ledger)
	mux.Handle("/v1/estimate", userAuth(http.HandlerFunc(estimateHandler.Estimate)))

	// Pipeline endpoints - service key
	mux.Handle("/v1/ledger/reserve", serviceKey(http.HandlerFunc(ledgerHandler.Reserve)))
	mux.Handle("/v1/ledger/debit", serviceKey(http.HandlerFunc(ledgerHandler.Debit)))
	mux.Handle("/v1/ledger/release", serviceKey(http.HandlerFunc(ledgerHandler.Release)))

	// Health check endpoint - public
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := deps.DB.Health(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := deps.Redis.Ping(ctx); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
