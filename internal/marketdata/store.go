package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/finhealth/backend/pkg/logger"
	"github.com/wonny/finhealth/backend/pkg/redis"
)

// Store is a TTL key/value cache holding JSON-encodable values.
// *redis.Cache and *MemoryStore both satisfy it.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NewStore picks Redis when the client is live, otherwise an in-memory store
func NewStore(client *redis.Client, prefix string, log *logger.Logger) (Store, *MemoryStore) {
	if client != nil && client.Enabled() {
		log.WithField("backend", "redis").Info("Provider cache initialized")
		return redis.NewCache(client, prefix), nil
	}

	log.WithField("backend", "memory").Info("Provider cache initialized")
	mem := NewMemoryStore(log)
	return mem, mem
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process TTL cache used when Redis is disabled
// ⭐ SSOT: Redis 미사용 시 프로바이더 캐시는 이 구조체에서만
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	logger  *logger.Logger
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		logger:  log,
		now:     time.Now,
	}
}

// Get decodes the entry into dest; expired entries are misses
func (s *MemoryStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists || !s.now().Before(entry.expiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("memory cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores a JSON copy of value until ttl elapses
func (s *MemoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory cache marshal failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

// Delete removes an entry
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len returns the number of entries, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// CleanExpired removes expired entries and returns how many were dropped
func (s *MemoryStore) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0

	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			count++
		}
	}

	if count > 0 {
		s.logger.WithField("count", count).Info("Cleaned expired entries from provider cache")
	}

	return count
}
