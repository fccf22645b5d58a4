// Package cache provides the fetch-cooldown cache. When a feed source
// answers with a throttling status, a cooldown key is set so later runs
// leave the source alone until the key expires.
package cache

import (
	"time"
)

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
