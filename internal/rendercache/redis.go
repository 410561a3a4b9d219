package rendercache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/udisondev/atlas/internal/config"
)

// Open creates a Redis client from config. Returns nil when the cache is
// disabled or no address is set.
func Open(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled || cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// Redis adapts a go-redis client to Backend.
type Redis struct {
	rc *redis.Client
}

// NewRedis wraps rc.
func NewRedis(rc *redis.Client) *Redis {
	return &Redis{rc: rc}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rc.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.rc.Set(ctx, key, val, ttl).Err()
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rc.Ping(ctx).Err()
}
