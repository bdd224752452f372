package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"github.com/gamevault/gamevault-api/internal/config"
	"github.com/gamevault/gamevault-api/internal/domain"
)

const redisKeyPrefix = "gamevault:leaderboard:"

// Redis shares leaderboard pages between API instances.
type Redis struct {
	client *redis.Client
	ttl    atomic.Int64
}

func NewRedisClient(conf *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
		PoolSize: conf.PoolSize,
	})
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	c := &Redis{
		client: client,
	}
	c.SetTTL(ttl)

	return c
}

func (c *Redis) Get(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+pageKey(limit, offset)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("c.client.Get -> %w", err)
	}

	var page []domain.RereleaseRequest
	if err = json.Unmarshal(raw, &page); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return page, true, nil
}

func (c *Redis) Set(ctx context.Context, limit, offset int, page []domain.RereleaseRequest) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	ttl := time.Duration(c.ttl.Load())
	if err = c.client.Set(ctx, redisKeyPrefix+pageKey(limit, offset), raw, ttl).Err(); err != nil {
		return fmt.Errorf("c.client.Set -> %w", err)
	}

	return nil
}

// Invalidate drops every cached page under the leaderboard prefix.
func (c *Redis) Invalidate(ctx context.Context) error {
	var keys []string

	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("iter.Err -> %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("c.client.Del -> %w", err)
	}

	return nil
}

func (c *Redis) SetTTL(ttl time.Duration) {
	c.ttl.Store(int64(ttl))
}
