// Package redis provides the dataset snapshot cache: fully-built pipeline
// outputs memoized per source fingerprint, shared across replicas.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gizitrack/stuntmap/internal/config"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// NewClient dials Redis and verifies the connection.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeCacheError, "failed to connect to redis")
	}

	log.Info("connected to Redis",
		logging.String("addr", cfg.Addr),
		logging.Int("db", cfg.DB),
	)
	return client, nil
}
