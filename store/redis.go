package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter persists values in Redis. Keys are namespaced under a prefix
// so one instance can share a database with other tenants.
type RedisAdapter struct {
	rdb    *redis.Client
	prefix string
}

// RedisOption configures a RedisAdapter.
type RedisOption func(*RedisAdapter)

// WithPrefix overrides the key namespace (default "reins").
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisAdapter) {
		r.prefix = strings.Trim(prefix, ":")
	}
}

// NewRedisAdapter wraps the given client. The adapter takes ownership:
// Close closes the client.
func NewRedisAdapter(rdb *redis.Client, opts ...RedisOption) (*RedisAdapter, error) {
	if rdb == nil {
		return nil, errors.New("nil redis client")
	}
	r := &RedisAdapter{
		rdb:    rdb,
		prefix: "reins",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Get retrieves a value by key.
func (r *RedisAdapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	data, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores a value by key. Values do not expire; the ledger is cumulative.
func (r *RedisAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := r.rdb.Set(ctx, r.key(key), []byte(value), 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisAdapter) Close() error {
	return r.rdb.Close()
}

func (r *RedisAdapter) key(key string) string {
	return r.prefix + ":" + key
}
