package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"expenso/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL  = 60 * time.Second
	pingTimeout = 5 * time.Second
)

// Redis stores JSON values under string keys with a fixed TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New connects to addr and fails if the server does not answer a ping.
func New(addr string, ttl time.Duration, log *logger.Logger) (*Redis, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: pingTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	if log != nil {
		log.Infow("redis_connected", "addr", addr, "ttl", ttl)
	}
	return &Redis{client: client, ttl: ttl, log: log}, nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}

// Get decodes the value at key into dst. A missing key is (false, nil).
func (c *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		if c.log != nil {
			c.log.Debugw("cache_miss", "key", key)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	if c.log != nil {
		c.log.Debugw("cache_hit", "key", key)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del %v: %w", keys, err)
	}
	return nil
}
