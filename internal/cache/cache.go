package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a keyed, time-bounded result cache in front of read queries.
// Entries are advisory: they expire after a uniform TTL and any write to
// the store clears the whole cache. Data keys are tracked in an index SET
// so InvalidateAll can delete every outstanding entry without a SCAN.
type Cache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// New builds a cache namespaced under prefix; ttl applies to every entry,
// there is no per-entry override.
func New(client redis.UniversalClient, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) dataKey(key string) string { return c.prefix + ":cache:" + key }
func (c *Cache) indexKey() string          { return c.prefix + ":cache:index" }

// Get returns the cached value and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.dataKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Put stores value under key for the configured TTL and records the key in
// the index. The index lives slightly longer than its entries so a stale
// index never outlives live data.
func (c *Cache) Put(ctx context.Context, key string, value []byte) error {
	dataKey := c.dataKey(key)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, dataKey, value, c.ttl)
	pipe.SAdd(ctx, c.indexKey(), dataKey)
	pipe.Expire(ctx, c.indexKey(), c.ttl+time.Minute)
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateAll deletes every outstanding entry. Writes are rare relative
// to reads, so a coarse full clear beats tracking which keys reference
// which rows.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, c.indexKey()).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := c.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, c.indexKey())
	_, err = pipe.Exec(ctx)
	return err
}
