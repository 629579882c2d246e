package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed JSON caching
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Enabled reports whether the backing Redis client is live
func (c *Cache) Enabled() bool {
	return c.client.Enabled()
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value; (false, nil) on miss
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// Predefined TTLs
const (
	TTLSnapshot = 15 * time.Minute // 종목 스냅샷 (시세 + 재무제표)
	TTLSearch   = 1 * time.Hour    // 종목 검색 결과
	TTLMacro    = 24 * time.Hour   // World Bank 연간 지표
)

// Common cache key generators

// SnapshotKey keys a provider snapshot by ticker and calendar date
func SnapshotKey(ticker string, date string) string {
	return fmt.Sprintf("snapshot:%s:%s", strings.ToUpper(ticker), date)
}

// MacroKey keys a macro observation by country code and calendar date
func MacroKey(code string, date string) string {
	return fmt.Sprintf("macro:%s:%s", strings.ToUpper(code), date)
}

// SearchKey keys a ticker search by normalized query and limit
func SearchKey(query string, limit int) string {
	return fmt.Sprintf("search:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
}
