package lock

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a key only while it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker coordinates slot locks across instances with SET NX PX
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// InitRedis connects to addr and verifies the connection
func InitRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Acquire takes every key or none. Keys obtained before a failure are released.
func (l *RedisLocker) Acquire(ctx context.Context, keys []string, ttl time.Duration) (func(), error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()

	acquired := make([]string, 0, len(keys))
	for _, k := range keys {
		ok, err := l.client.SetNX(ctx, k, token, ttl).Result()
		if err != nil {
			l.release(acquired, token)
			return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
		}
		if !ok {
			l.release(acquired, token)
			return nil, ErrNotAcquired
		}
		acquired = append(acquired, k)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(acquired, token) })
	}, nil
}

func (l *RedisLocker) release(keys []string, token string) {
	// Released on a fresh context so a cancelled request still frees its keys
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, k := range keys {
		if err := releaseScript.Run(ctx, l.client, []string{k}, token).Err(); err != nil {
			log.Printf("Failed to release slot lock %s: %v", k, err)
		}
	}
}
