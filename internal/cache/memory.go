package cache

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps listing pages in process. It is used when no Redis
// address is configured. Like RedisCache it keys pages by a generation
// counter, so a page computed before an invalidation is written where no
// later read will find it.
type MemoryCache struct {
	store      *gocache.Cache
	generation atomic.Uint64
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) GetPage(_ context.Context, q models.ListingQuery) (*models.ListingPage, string, bool) {
	key := QueryKey(listingPrefix+":"+strconv.FormatUint(c.generation.Load(), 10), q.CacheParams())
	x, found := c.store.Get(key)
	if !found {
		return nil, key, false
	}
	page, ok := x.(*models.ListingPage)
	return page, key, ok
}

func (c *MemoryCache) SetPage(_ context.Context, token string, page *models.ListingPage) {
	if token == "" {
		return
	}
	c.store.Set(token, page, gocache.DefaultExpiration)
}

// Invalidate moves to a new generation. Pages of older generations are
// left for the janitor.
func (c *MemoryCache) Invalidate(context.Context) {
	c.generation.Add(1)
}
