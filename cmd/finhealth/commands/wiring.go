package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/finhealth/backend/internal/analysis"
	"github.com/wonny/finhealth/backend/internal/api"
	"github.com/wonny/finhealth/backend/internal/api/handlers"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/internal/external/worldbank"
	"github.com/wonny/finhealth/backend/internal/external/yahoo"
	"github.com/wonny/finhealth/backend/internal/macro"
	"github.com/wonny/finhealth/backend/internal/marketdata"
	"github.com/wonny/finhealth/backend/internal/scheduler"
	"github.com/wonny/finhealth/backend/internal/scoringconfig"
	"github.com/wonny/finhealth/backend/pkg/config"
	"github.com/wonny/finhealth/backend/pkg/database"
	"github.com/wonny/finhealth/backend/pkg/httputil"
	"github.com/wonny/finhealth/backend/pkg/logger"
	"github.com/wonny/finhealth/backend/pkg/redis"
)

// providerRetryDelay is the first backoff step for upstream retries
const providerRetryDelay = 500 * time.Millisecond

// app holds the wired dependencies shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	rules   *scoringconfig.Config
	service *analysis.Service
	engine  *macro.Engine

	macroCache  *marketdata.CachedMacroData
	memoryStore *marketdata.MemoryStore // nil when Redis backs the cache
	redisClient *redis.Client
	db          *database.DB // nil when the archive is disabled

	closers []func()
}

// Close releases connections in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// bootstrap loads config and wires providers, caches and engines.
// Redis and PostgreSQL are optional: failures degrade to memory cache / no archive.
func bootstrap(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// 3. Scoring rules
	rules, err := scoringconfig.LoadOrDefault(cfg.ScoringConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	a.rules = rules
	if hash, err := scoringconfig.Hash(rules); err == nil {
		log.WithFields(map[string]interface{}{
			"rule_set_id": rules.Meta.RuleSetID,
			"version":     rules.Meta.Version,
			"hash":        hash,
		}).Info("Scoring rules loaded")
	}

	// 4. Redis (optional)
	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, falling back to in-memory cache")
		redisClient, _ = redis.New(&config.Config{})
	}
	a.redisClient = redisClient
	a.closers = append(a.closers, func() { _ = redisClient.Close() })

	// 5. Snapshot archive (optional)
	var archive contracts.SnapshotArchive
	db, err := database.New(ctx, cfg)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Debug("DATABASE_URL not set, snapshot archive disabled")
	case err != nil:
		log.WithError(err).Warn("Database unavailable, snapshot archive disabled")
	default:
		a.db = db
		a.closers = append(a.closers, db.Close)
		repo := marketdata.NewSnapshotRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Warn("Snapshot schema unavailable, archive disabled")
		} else {
			archive = repo
			log.Info("Snapshot archive enabled")
		}
	}

	// 6. HTTP clients (rate limited per upstream)
	limiter := redis.NewRateLimiter(redisClient, "finhealth")

	yahooHTTP := providerHTTPClient(log, cfg.Yahoo.Timeout, cfg.Yahoo.MaxRetries).
		WithHeader("User-Agent", "Mozilla/5.0 (compatible; finhealth/1.0)").
		WithCookieJar().
		WithLocalRateLimit(cfg.Yahoo.RateLimit).
		WithRateLimiter(limiter, redis.YahooRateLimit)

	worldBankHTTP := providerHTTPClient(log, cfg.WorldBank.Timeout, cfg.WorldBank.MaxRetries).
		WithRateLimiter(limiter, redis.WorldBankRateLimit)

	// 7. Providers
	yahooClient := yahoo.NewClient(yahooHTTP, log).
		WithBaseURLs(cfg.Yahoo.BaseURL, cfg.Yahoo.SearchBaseURL).
		WithCrumb(cfg.Yahoo.CookieURL)
	worldBankClient := worldbank.NewClient(worldBankHTTP, log).WithBaseURL(cfg.WorldBank.BaseURL)

	// 8. Caches
	store, memoryStore := marketdata.NewStore(redisClient, "finhealth", log)
	a.memoryStore = memoryStore

	marketData := marketdata.NewCachedMarketData(yahooClient, store, archive, cfg.Cache.SnapshotTTL, log)
	a.macroCache = marketdata.NewCachedMacroData(worldBankClient, store, cfg.Cache.MacroTTL, log)

	// 9. Engines
	a.service = analysis.NewService(marketData, rules, log)
	a.engine = macro.NewEngine(a.macroCache, rules.Buffett, log)

	return a, nil
}

// providerHTTPClient builds one upstream's JSON client; maxRetries 0 disables retry
func providerHTTPClient(log *logger.Logger, timeout time.Duration, maxRetries int) *httputil.Client {
	client := httputil.NewWithTimeout(log, timeout).WithHeader("Accept", "application/json")
	if maxRetries <= 0 {
		return client.DisableRetry()
	}
	return client.WithRetry(maxRetries, providerRetryDelay)
}

// healthHandler registers one check per wired dependency
func (a *app) healthHandler(sched *scheduler.Scheduler) *handlers.HealthHandler {
	h := handlers.NewHealthHandler(api.ServiceName, a.log)

	if a.redisClient.Enabled() {
		h.Register("redis", func(ctx context.Context) (interface{}, error) {
			stats := a.redisClient.Redis().PoolStats()
			detail := map[string]interface{}{
				"hits":        stats.Hits,
				"misses":      stats.Misses,
				"timeouts":    stats.Timeouts,
				"total_conns": stats.TotalConns,
				"idle_conns":  stats.IdleConns,
			}
			return detail, a.redisClient.Ping(ctx)
		})
	}

	if a.memoryStore != nil {
		h.Register("memory_cache", func(ctx context.Context) (interface{}, error) {
			return map[string]int{"entries": a.memoryStore.Len()}, nil
		})
	}

	if a.db != nil {
		h.Register("database", func(ctx context.Context) (interface{}, error) {
			status, err := a.db.HealthCheck(ctx)
			return status, err
		})
	}

	if sched != nil {
		h.Register("scheduler", func(ctx context.Context) (interface{}, error) {
			return sched.GetJobStats(), nil
		})
	}

	return h
}
