// Package redis provides a Redis-backed request counter used for rate
// limiting the public contact endpoint across server instances.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter counts requests per key in fixed windows using INCR with a TTL
// set on the first hit of each window.
type Limiter struct {
	client *redis.Client
}

// NewLimiter connects to Redis and verifies the connection with a ping.
func NewLimiter(addr, password string, db int) (*Limiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Limiter{client: client}, nil
}

// Allow records a hit for key and reports whether it stays within limit
// hits per window. Fails open on Redis errors so a cache outage does not
// take the endpoint down with it.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("ratelimit incr: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return true, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	return count <= int64(limit), nil
}

// Close releases the underlying connection pool.
func (l *Limiter) Close() error {
	return l.client.Close()
}
