package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
	"github.com/wonny/finhealth/backend/pkg/redis"
)

const dateLayout = "2006-01-02"

// CachedMarketData wraps a MarketDataProvider with a TTL cache and an
// optional snapshot archive used when the provider is unavailable.
// ⭐ SSOT: 원시 스냅샷만 캐시 (계산된 점수는 캐시하지 않음)
type CachedMarketData struct {
	provider    contracts.MarketDataProvider
	store       Store
	archive     contracts.SnapshotArchive
	snapshotTTL time.Duration
	searchTTL   time.Duration
	logger      *logger.Logger
	now         func() time.Time
}

// NewCachedMarketData creates the caching provider; archive may be nil
func NewCachedMarketData(provider contracts.MarketDataProvider, store Store, archive contracts.SnapshotArchive, snapshotTTL time.Duration, log *logger.Logger) *CachedMarketData {
	if snapshotTTL <= 0 {
		snapshotTTL = redis.TTLSnapshot
	}
	return &CachedMarketData{
		provider:    provider,
		store:       store,
		archive:     archive,
		snapshotTTL: snapshotTTL,
		searchTTL:   redis.TTLSearch,
		logger:      log.WithComponent("marketdata"),
		now:         time.Now,
	}
}

// Snapshot returns today's cached snapshot or fetches a fresh one
func (c *CachedMarketData) Snapshot(ctx context.Context, symbol string) (*contracts.MarketSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	key := redis.SnapshotKey(symbol, c.now().Format(dateLayout))

	var cached contracts.MarketSnapshot
	if hit, err := c.store.Get(ctx, key, &cached); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	} else if hit {
		c.logger.WithField("symbol", symbol).Debug("Snapshot cache hit")
		return &cached, nil
	}

	snapshot, err := c.provider.Snapshot(ctx, symbol)
	if err != nil {
		return c.fromArchive(ctx, symbol, err)
	}

	if err := c.store.Set(ctx, key, snapshot, c.snapshotTTL); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}

	if c.archive != nil {
		if err := c.archive.Save(ctx, symbol, snapshot); err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot archive write failed")
		}
	}

	return snapshot, nil
}

// fromArchive serves the last archived snapshot when the provider is down
func (c *CachedMarketData) fromArchive(ctx context.Context, symbol string, cause error) (*contracts.MarketSnapshot, error) {
	if c.archive == nil || !contracts.IsProviderUnavailable(cause) {
		return nil, cause
	}

	snapshot, err := c.archive.Latest(ctx, symbol)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotArchived) {
			c.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot archive read failed")
		}
		return nil, cause
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"fetched_at": snapshot.FetchedAt,
	}).Warn("Provider unavailable, serving archived snapshot")

	return snapshot, nil
}

// Search caches ticker lookups
func (c *CachedMarketData) Search(ctx context.Context, query string, limit int) ([]contracts.SearchResult, error) {
	key := redis.SearchKey(query, limit)

	var cached []contracts.SearchResult
	if hit, err := c.store.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	results, err := c.provider.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, results, c.searchTTL); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
	return results, nil
}

// News is never cached
func (c *CachedMarketData) News(ctx context.Context, symbol string, limit int) ([]contracts.NewsItem, error) {
	return c.provider.News(ctx, symbol, limit)
}

// CachedMacroData wraps a MacroDataProvider with a daily TTL cache
type CachedMacroData struct {
	provider contracts.MacroDataProvider
	store    Store
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewCachedMacroData creates the caching macro provider
func NewCachedMacroData(provider contracts.MacroDataProvider, store Store, ttl time.Duration, log *logger.Logger) *CachedMacroData {
	if ttl <= 0 {
		ttl = redis.TTLMacro
	}
	return &CachedMacroData{
		provider: provider,
		store:    store,
		ttl:      ttl,
		logger:   log.WithComponent("marketdata"),
		now:      time.Now,
	}
}

func (c *CachedMacroData) key(country contracts.Country) string {
	return redis.MacroKey(country.Code, c.now().Format(dateLayout))
}

// Observation returns today's cached observation or fetches it
func (c *CachedMacroData) Observation(ctx context.Context, country contracts.Country) (*contracts.MacroObservation, error) {
	var cached contracts.MacroObservation
	if hit, err := c.store.Get(ctx, c.key(country), &cached); err != nil {
		c.logger.WithError(err).WithField("country", country.Code).Warn("Cache read failed")
	} else if hit {
		return &cached, nil
	}

	return c.Refresh(ctx, country)
}

// Refresh fetches from the provider and overwrites the cache entry
func (c *CachedMacroData) Refresh(ctx context.Context, country contracts.Country) (*contracts.MacroObservation, error) {
	obs, err := c.provider.Observation(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", country.Code, err)
	}

	if err := c.store.Set(ctx, c.key(country), obs, c.ttl); err != nil {
		c.logger.WithError(err).WithField("country", country.Code).Warn("Cache write failed")
	}
	return obs, nil
}
