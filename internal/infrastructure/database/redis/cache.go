package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
)

// Cmdable is the slice of the redis client the cache needs.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SnapshotCache stores serialized datasets keyed by source fingerprint.
// Every failure degrades to a cache miss: the cache is an accelerator, the
// pipeline must keep working with Redis down.
type SnapshotCache struct {
	client Cmdable
	prefix string
	ttl    time.Duration
	logger logging.Logger
}

// NewSnapshotCache builds a cache with the given key prefix and entry TTL.
func NewSnapshotCache(client Cmdable, prefix string, ttl time.Duration, log logging.Logger) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log.Named("snapshot-cache"),
	}
}

func (c *SnapshotCache) key(fingerprint string) string {
	return c.prefix + "dataset:" + fingerprint
}

// Get returns the cached dataset for fingerprint, or false on a miss.
func (c *SnapshotCache) Get(ctx context.Context, fingerprint string) (*analytics.Dataset, bool) {
	payload, err := c.client.Get(ctx, c.key(fingerprint)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("snapshot cache read failed", logging.Err(err))
		}
		return nil, false
	}

	var ds analytics.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		c.logger.Warn("snapshot cache entry is corrupt, treating as miss",
			logging.String("fingerprint", fingerprint),
			logging.Err(err),
		)
		return nil, false
	}
	return &ds, true
}

// Put stores ds under fingerprint with the configured TTL.
func (c *SnapshotCache) Put(ctx context.Context, fingerprint string, ds *analytics.Dataset) {
	payload, err := json.Marshal(ds)
	if err != nil {
		c.logger.Warn("failed to serialize dataset for cache", logging.Err(err))
		return
	}
	if err := c.client.Set(ctx, c.key(fingerprint), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache write failed", logging.Err(err))
	}
}
