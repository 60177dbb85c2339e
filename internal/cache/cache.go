// Package cache stores geocode lookups so re-runs do not hit the network
// for names that were already resolved (or already failed to resolve).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the storage interface shared by the memory, disk and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a place name. Lookups are case-insensitive:
// the same name in different casing resolves to the same entry.
func Key(name string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name))))
	return "lettergeo:v1:" + hex.EncodeToString(sum[:])
}
