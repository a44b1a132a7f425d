package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThrottleRepository counts hits per key inside a fixed window.
type ThrottleRepository interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type RedisThrottleRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisThrottleRepository(client *redis.Client) *RedisThrottleRepository {
	return &RedisThrottleRepository{
		client: client,
		prefix: "throttle:",
	}
}

func (r *RedisThrottleRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if limit <= 0 {
		return true, nil
	}

	redisKey := r.prefix + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", key, err)
	}

	// first hit opens the window
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set window for %s: %w", key, err)
		}
	}

	return count <= int64(limit), nil
}
