package window

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for rate limit windows.
const keyPrefix = "rate_limit:"

// RedisWindowStore persists windows as JSON arrays of epoch-millisecond
// timestamps under rate_limit:<identity>, each write refreshing the TTL.
// Redis evicts idle identities on its own, so there is no cleanup worker.
type RedisWindowStore struct {
	client redis.Cmdable
}

// NewRedis constructs a Redis-backed window store.
func NewRedis(client redis.Cmdable) *RedisWindowStore {
	return &RedisWindowStore{client: client}
}

func (s *RedisWindowStore) Get(ctx context.Context, identity string) ([]int64, error) {
	raw, err := s.client.Get(ctx, keyPrefix+identity).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rate limit window: %w", err)
	}

	var window []int64
	if err := json.Unmarshal([]byte(raw), &window); err != nil {
		return nil, fmt.Errorf("decode rate limit window: %w", err)
	}
	return window, nil
}

func (s *RedisWindowStore) Put(ctx context.Context, identity string, window []int64, ttl time.Duration) error {
	payload, err := json.Marshal(window)
	if err != nil {
		return fmt.Errorf("encode rate limit window: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+identity, payload, ttl).Err(); err != nil {
		return fmt.Errorf("set rate limit window: %w", err)
	}
	return nil
}
