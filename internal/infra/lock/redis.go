package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisLocker is a SETNX lock shared by every API instance. Each holder
// owns a random token so an expired holder cannot delete a newer lock.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    10 * time.Second,
		wait:   5 * time.Second,
		retry:  25 * time.Millisecond,
	}
}

// WithTimings overrides the lock TTL and the maximum wait.
func (l *RedisLocker) WithTimings(ttl, wait time.Duration) *RedisLocker {
	l.ttl, l.wait = ttl, wait
	return l
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return l.release(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisLocker) release(key, token string) Release {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
		})
	}
}
