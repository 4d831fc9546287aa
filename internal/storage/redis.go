package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"storefront/pkg/platform/sentinel"
)

const redisKeyPrefix = "storefront:state:"

// Redis keeps client state in Redis so several storefront instances behind one
// origin see the same carts and tokens. Concurrent writers race and the last
// write wins, same as two browser tabs sharing localStorage.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Read(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", sentinel.ErrUnavailable, key, err)
	}
	return raw, nil
}

func (r *Redis) Write(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: write %s: %w", sentinel.ErrUnavailable, key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %w", sentinel.ErrUnavailable, key, err)
	}
	return nil
}
