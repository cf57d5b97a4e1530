package devicestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps each value under device:{partition}:{key}. Every
// write refreshes the TTL so an idle device eventually expires.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func Key(partition, key string) string {
	return "device:" + partition + ":" + key
}

func (r *redisStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	p, err := partition(ctx)
	if err != nil {
		return "", false, err
	}

	value, err := r.client.Get(ctx, Key(p, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get device item %s: %w", key, err)
	}

	return value, true, nil
}

func (r *redisStore) SetItem(ctx context.Context, key, value string) error {
	p, err := partition(ctx)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, Key(p, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set device item %s: %w", key, err)
	}

	return nil
}

func (r *redisStore) RemoveItem(ctx context.Context, key string) error {
	p, err := partition(ctx)
	if err != nil {
		return err
	}

	if err := r.client.Del(ctx, Key(p, key)).Err(); err != nil {
		return fmt.Errorf("failed to remove device item %s: %w", key, err)
	}

	return nil
}
