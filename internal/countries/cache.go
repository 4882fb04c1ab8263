package countries

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedResult struct {
	countries []Country
	fetchedAt time.Time
}

// CachedLookuper remembers successful lookups per normalized query.
// Failures are never cached, so a transient network error is retried
// on the next keystroke.
type CachedLookuper struct {
	next  Lookuper
	ttl   time.Duration
	cache *lru.Cache[string, cachedResult]
	now   func() time.Time
}

// NewCachedLookuper wraps next with an LRU of the given size.
// A zero ttl keeps entries until they are evicted.
func NewCachedLookuper(next Lookuper, size int, ttl time.Duration) (*CachedLookuper, error) {
	cache, err := lru.New[string, cachedResult](size)
	if err != nil {
		return nil, err
	}

	return &CachedLookuper{
		next:  next,
		ttl:   ttl,
		cache: cache,
		now:   time.Now,
	}, nil
}

// Lookup serves from cache when a fresh entry exists
func (c *CachedLookuper) Lookup(ctx context.Context, name string) ([]Country, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	if entry, ok := c.cache.Get(key); ok {
		if c.ttl == 0 || c.now().Sub(entry.fetchedAt) < c.ttl {
			return entry.countries, nil
		}
		c.cache.Remove(key)
	}

	result, err := c.next.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, cachedResult{countries: result, fetchedAt: c.now()})
	return result, nil
}

// Len returns the number of cached queries
func (c *CachedLookuper) Len() int {
	return c.cache.Len()
}
