package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyTTL is how long a recorded response is replayed for a repeated Idempotency-Key.
const IdempotencyTTL = 24 * time.Hour

// ReservationTTL bounds how long a crashed request can hold its key.
const ReservationTTL = 30 * time.Second

const (
	idempotencyPrefix = "scoremvp:idempotency:"
	pendingMarker     = "pending"
)

// RedisCache handles idempotency records and shared Redis access
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisCacheFromClient(client), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, ttl: IdempotencyTTL}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Reserve claims key for a request about to run. reserved is true when the
// caller now owns the key. Otherwise payload holds the remembered response, or
// is nil while the owner is still running.
func (rc *RedisCache) Reserve(ctx context.Context, key string) (reserved bool, payload []byte, err error) {
	reserved, err = rc.client.SetNX(ctx, idempotencyPrefix+key, pendingMarker, ReservationTTL).Result()
	if err != nil || reserved {
		return reserved, nil, err
	}

	payload, err = rc.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// the reservation expired between the two calls; report it as in flight
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	if string(payload) == pendingMarker {
		return false, nil, nil
	}
	return false, payload, nil
}

// Remember stores payload under a reserved key for IdempotencyTTL
func (rc *RedisCache) Remember(ctx context.Context, key string, payload []byte) error {
	return rc.client.Set(ctx, idempotencyPrefix+key, payload, rc.ttl).Err()
}

// Release drops a reservation whose request failed so a retry can run
func (rc *RedisCache) Release(ctx context.Context, key string) error {
	return rc.client.Del(ctx, idempotencyPrefix+key).Err()
}
