package storage

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "walletstate:v1:"

// Redis persists wallet state in a Redis hash per scope. Set buffers locally;
// Save flushes the buffer in a single pipeline.
type Redis struct {
	client *redis.Client
	scope  string

	mu      sync.Mutex
	pending map[string]string
}

// NewRedis builds a Redis-backed store scoped to one wallet (typically the
// wallet address).
func NewRedis(client *redis.Client, scope string) *Redis {
	return &Redis{
		client:  client,
		scope:   scope,
		pending: make(map[string]string),
	}
}

func (r *Redis) key() string {
	return redisKeyPrefix + r.scope
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key(), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[key] = value
	return nil
}

func (r *Redis) Save(ctx context.Context) error {
	r.mu.Lock()
	pending := r.pending
	r.pending = make(map[string]string)
	r.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	fields := make([]any, 0, len(pending)*2)
	for k, v := range pending {
		fields = append(fields, k, v)
	}
	if err := r.client.HSet(ctx, r.key(), fields...).Err(); err != nil {
		// Keep the writes buffered so a later Save can retry.
		r.mu.Lock()
		for k, v := range pending {
			if _, exists := r.pending[k]; !exists {
				r.pending[k] = v
			}
		}
		r.mu.Unlock()
		return err
	}
	return nil
}
