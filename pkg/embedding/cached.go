package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached decorates a Provider with an in-process cache keyed by text hash.
// Repeated queries (dashboards re-running the same question, persona surveys
// asking every persona the same thing) skip the provider round trip.
type Cached struct {
	inner Provider
	cache *cache.Cache
}

var _ Provider = (*Cached)(nil)

// NewCached wraps inner with a cache using the given TTL.
func NewCached(inner Provider, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (c *Cached) Generate(ctx context.Context, text string) (*Response, error) {
	key := cacheKey(text)
	if hit, found := c.cache.Get(key); found {
		return hit.(*Response), nil
	}

	resp, err := c.inner.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, resp, cache.DefaultExpiration)
	return resp, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
