package placement_cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kartwerk/riverlabel/placement"
)

var _ Cache = (*RedisCache)(nil)

// RedisCache keeps placements as JSON values with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (rc *RedisCache) Name() string {
	return "redis"
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]placement.Placement, bool, error) {
	s, err := rc.client.Get(ctx, rc.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached placements: %w", err)
	}

	var placements []placement.Placement
	if err := json.Unmarshal([]byte(s), &placements); err != nil {
		return nil, false, fmt.Errorf("bad cached placements for '%s': %w", key, err)
	}

	return placements, true, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, placements []placement.Placement) error {
	b, err := json.Marshal(placements)
	if err != nil {
		return err
	}
	if err := rc.client.Set(ctx, rc.prefix+key, string(b), rc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache placements: %w", err)
	}
	return nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

func NewRedisCacheWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DEFAULT_TTL_SECONDS * time.Second
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func NewRedisCache(cfg Config) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisCacheWithClient(client, cfg.KeyPrefix, cfg.TTL())
}
