package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to redis. It returns nil when no address is
// configured or the server does not answer; callers then fall back to
// in-process locking and disable rate limiting.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
