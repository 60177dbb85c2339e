package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lettergeo/internal/cache"
	"lettergeo/internal/model"
)

// Cached wraps a Geocoder with a cache. Unresolved names are cached too,
// with a shorter TTL, so re-runs do not hammer the service with lookups that
// are known to fail.
type Cached struct {
	inner       Geocoder
	store       cache.Cache
	ttl         time.Duration
	negativeTTL time.Duration
}

// NewCached wraps inner with the configured cache.
func NewCached(inner Geocoder, cfg model.CacheConfig) *Cached {
	return &Cached{
		inner:       inner,
		store:       cache.NewLayeredCache(cfg.TTL, cfg.Dir, cfg.TTL),
		ttl:         cfg.TTL,
		negativeTTL: cfg.NegativeTTL,
	}
}

type cachedLookup struct {
	Resolved bool    `json:"resolved"`
	Result   *Result `json:"result,omitempty"`
}

// Geocode serves from the cache when possible, otherwise delegates and
// records the outcome. Lookup failures (as opposed to definitive
// unresolved answers) are never cached.
func (c *Cached) Geocode(ctx context.Context, name string) (*Result, error) {
	key := cache.Key(name)

	if raw, hit := c.store.Get(key); hit {
		var entry cachedLookup
		if err := json.Unmarshal(raw, &entry); err == nil {
			if entry.Resolved {
				return entry.Result, nil
			}
			return nil, ErrUnresolved
		}
		// Corrupt entry: fall through to a fresh lookup.
		_ = c.store.Delete(key)
	}

	result, err := c.inner.Geocode(ctx, name)
	switch {
	case err == nil:
		c.put(key, cachedLookup{Resolved: true, Result: result}, c.ttl)
		return result, nil
	case errors.Is(err, ErrUnresolved):
		c.put(key, cachedLookup{Resolved: false}, c.negativeTTL)
		return nil, ErrUnresolved
	default:
		return nil, err
	}
}

func (c *Cached) put(key string, entry cachedLookup, ttl time.Duration) {
	if raw, err := json.Marshal(entry); err == nil {
		_ = c.store.Set(key, raw, ttl)
	}
}
