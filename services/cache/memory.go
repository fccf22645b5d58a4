package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss is returned by Get for absent or expired keys, on every
// backend
var ErrCacheMiss = errors.New("cache: miss")

// MemoryService implements CacheService with an in-process map. Used when
// no memcache address is configured; cooldowns then only span one run.
type MemoryService struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

// Ensure MemoryService implements CacheService
var _ CacheService = (*MemoryService)(nil)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryService creates a new in-memory cache service
func NewMemoryService() *MemoryService {
	return &MemoryService{
		items: make(map[string]memoryItem),
	}
}

// Get retrieves a value, honoring expiry
func (m *MemoryService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		delete(m.items, key)
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value with an expiration time (zero means no expiry)
func (m *MemoryService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}
	m.items[key] = memoryItem{value: value, expiresAt: expiresAt}
	return nil
}

// Delete removes a value
func (m *MemoryService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
