package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InvalidationChannel is the pub/sub channel other instances publish cache
// invalidations on. Payload is a user ID, or "*" for a full flush.
const InvalidationChannel = "lifeboard:invalidate"

// RedisService provides Redis connection and operations. Redis is optional:
// when REDIS_URL is unset the rest of the system falls back to in-process
// equivalents (local rate limiting, no cross-instance invalidation).
type RedisService struct {
	client *redis.Client
	mu     sync.RWMutex

	pubsub *redis.PubSub
	cancel context.CancelFunc
}

var (
	redisInstance *RedisService
	redisOnce     sync.Once
)

// NewRedisService creates a new Redis service instance
func NewRedisService(redisURL string) (*RedisService, error) {
	var initErr error

	redisOnce.Do(func() {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			initErr = fmt.Errorf("failed to parse Redis URL: %w", err)
			return
		}

		// Configure connection pool
		opts.PoolSize = 10
		opts.MinIdleConns = 2
		opts.MaxRetries = 3
		opts.DialTimeout = 5 * time.Second
		opts.ReadTimeout = 3 * time.Second
		opts.WriteTimeout = 3 * time.Second

		client := redis.NewClient(opts)

		// Test connection
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			initErr = fmt.Errorf("failed to connect to Redis: %w", err)
			return
		}

		redisInstance = &RedisService{
			client: client,
		}

		log.Println("✅ Redis connection established")
	})

	if initErr != nil {
		return nil, initErr
	}

	return redisInstance, nil
}

// GetRedisService returns the singleton Redis service instance
func GetRedisService() *RedisService {
	return redisInstance
}

// Client returns the underlying Redis client
func (r *RedisService) Client() *redis.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Close stops the invalidation listener and closes the Redis connection
func (r *RedisService) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Ping checks if Redis is healthy
func (r *RedisService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PublishInvalidation broadcasts a cache invalidation to all instances.
// Pass "*" to flush every cached context.
func (r *RedisService) PublishInvalidation(ctx context.Context, userID string) error {
	return r.client.Publish(ctx, InvalidationChannel, userID).Err()
}

// StartInvalidationListener subscribes to the invalidation channel and
// applies incoming messages to the local aggregator cache. Runs until Close.
func (r *RedisService) StartInvalidationListener(aggregator *ContextAggregator) error {
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	r.cancel = cancel
	r.pubsub = r.client.Subscribe(ctx, InvalidationChannel)
	pubsub := r.pubsub
	r.mu.Unlock()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to %s: %w", InvalidationChannel, err)
	}

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg.Payload == "*" {
					aggregator.InvalidateAll()
				} else {
					aggregator.InvalidateUser(msg.Payload)
				}
			}
		}
	}()

	log.Printf("✅ [PUBSUB] Listening for cache invalidations on %s", InvalidationChannel)
	return nil
}

// SetNX sets a key only if it doesn't exist (for distributed locking)
func (r *RedisService) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, expiration).Result()
}

// AcquireLock attempts to acquire a distributed lock
// Returns true if lock was acquired, false otherwise
func (r *RedisService) AcquireLock(ctx context.Context, lockKey string, lockValue string, expiration time.Duration) (bool, error) {
	return r.client.SetNX(ctx, lockKey, lockValue, expiration).Result()
}

// ReleaseLock releases a distributed lock if it's still held by the given value
func (r *RedisService) ReleaseLock(ctx context.Context, lockKey string, lockValue string) (bool, error) {
	// Lua script to atomically check and delete
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	result, err := script.Run(ctx, r.client, []string{lockKey}, lockValue).Int64()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

// CheckRateLimit checks if a rate limit has been exceeded
// Returns remaining requests and whether the limit was exceeded
func (r *RedisService) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (remaining int64, exceeded bool, err error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	remaining = limit - count
	if remaining < 0 {
		remaining = 0
	}

	return remaining, count > limit, nil
}
