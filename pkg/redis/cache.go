package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tgpaywall/tgpaywall/pkg/cache"
)

const defaultScanBatchSize = 500

// Cache implements cache.Cache on top of a go-redis client.
// Prefix invalidation walks the keyspace with SCAN so it never blocks the server.
type Cache struct {
	db        redis.UniversalClient
	prefix    string
	batchSize int64
}

var _ cache.Cache = (*Cache)(nil)

// NewCache wraps client. cfg supplies the key namespace and SCAN batch size.
func NewCache(client redis.UniversalClient, cfg Config) *Cache {
	batch := cfg.ScanBatchSize
	if batch <= 0 {
		batch = defaultScanBatchSize
	}
	return &Cache{db: client, prefix: cfg.KeyPrefix, batchSize: batch}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, cache.ErrEmptyKey
	}
	val, err := c.db.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrMiss
	}
	return val, err
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return cache.ErrEmptyKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.db.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			full = append(full, c.prefix+k)
		}
	}
	if len(full) == 0 {
		return nil
	}
	return c.db.Del(ctx, full...).Err()
}

func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := c.prefix + prefix + "*"
	var cursor uint64
	for {
		keys, next, err := c.db.Scan(ctx, cursor, pattern, c.batchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.db.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
