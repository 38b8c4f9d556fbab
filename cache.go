package keystoreauth

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// namespaceCache is a best-effort read-through cache for namespace
// resolution, the one backend call whose answer is stable enough to keep.
// Redis faults degrade to cache misses so an unavailable cache never
// blocks a decision; entries expire after the configured TTL so a policy
// reload is picked up without invalidation plumbing.
type namespaceCache struct {
	redis  *redis.Client
	prefix string
	cfg    CacheConfig
}

func newNamespaceCache(client *redis.Client, cfg CacheConfig) *namespaceCache {
	if !cfg.Enabled || client == nil {
		return nil
	}
	return &namespaceCache{
		redis:  client,
		prefix: cfg.RedisPrefix,
		cfg:    cfg,
	}
}

func (c *namespaceCache) key(namespace int64) string {
	return c.prefix + ":ns:" + strconv.FormatInt(namespace, 10)
}

func (c *namespaceCache) Get(ctx context.Context, namespace int64) (SecurityContext, bool) {
	val, err := c.redis.Get(ctx, c.key(namespace)).Result()
	if err != nil {
		// redis.Nil and transport errors alike are misses.
		return "", false
	}
	return SecurityContext(val), true
}

func (c *namespaceCache) Put(ctx context.Context, namespace int64, target SecurityContext) {
	// Best effort: a failed write only costs a future backend lookup.
	_ = c.redis.Set(ctx, c.key(namespace), string(target), c.cfg.TTL).Err()
}
