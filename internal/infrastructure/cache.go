package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/architeacher/docrepo/internal/config"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 100

// RedisClient is the page cache connection. Values are opaque bytes.
type RedisClient struct {
	rdb    *redis.Client
	logger logger.Logger
	ttl    time.Duration
}

func NewRedisClient(cfg config.Cache, log logger.Logger) *RedisClient {
	return &RedisClient{
		rdb: redis.NewClient(&redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           int(cfg.DB),
			PoolSize:     int(cfg.PoolSize),
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
		logger: log,
		ttl:    cfg.PageTTL,
	}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// Get reports a missing key as found == false rather than an error.
func (c *RedisClient) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	start := time.Now()

	value, err = c.rdb.Get(ctx, key).Bytes()

	log := c.logger.WithContext(ctx)

	log.Debug().
		Str("key", key).
		Bool("hit", err == nil).
		Dur("elapsed", time.Since(start)).
		Msg("cache get")

	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	default:
		return value, true, nil
	}
}

// Set stores value for ttl, or for the configured page TTL when ttl is zero.
func (c *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	log := c.logger.WithContext(ctx)

	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set")

	return nil
}

// DeleteMatching removes every key matching pattern and returns how many
// were deleted. Keys are collected with SCAN and removed in batches.
func (c *RedisClient) DeleteMatching(ctx context.Context, pattern string) (int64, error) {
	var (
		deleted int64
		batch   = make([]string, 0, scanBatchSize)
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		n, err := c.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis del: %w", err)
		}

		deleted += n
		batch = batch[:0]

		return nil
	}

	iter := c.rdb.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) == scanBatchSize {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}

	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan %s: %w", pattern, err)
	}

	if err := flush(); err != nil {
		return deleted, err
	}

	return deleted, nil
}
