package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisThrottle is a fixed-window attempt counter keyed per login name.
type RedisThrottle struct {
	rdb    redis.Cmdable
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisThrottle(rdb redis.Cmdable, limit int64, window time.Duration) *RedisThrottle {
	return &RedisThrottle{rdb: rdb, limit: limit, window: window, prefix: "login:attempts:"}
}

// Allow records one attempt and reports whether it is within the limit.
func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	k := t.prefix + key

	n, err := t.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("throttle: %w", err)
	}
	if n == 1 {
		if err := t.rdb.Expire(ctx, k, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle: %w", err)
		}
	}

	return n <= t.limit, nil
}

func (t *RedisThrottle) Reset(ctx context.Context, key string) error {
	if err := t.rdb.Del(ctx, t.prefix+key).Err(); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return nil
}
