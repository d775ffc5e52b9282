package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository keeps fixed-window request counters in Redis.
type RateLimitRepository struct {
	client redis.UniversalClient
}

// NewRateLimitRepository constructs the repository.
func NewRateLimitRepository(client redis.UniversalClient) *RateLimitRepository {
	return &RateLimitRepository{client: client}
}

// Increment bumps the counter at key and returns its value, setting the TTL on first use.
func (r *RateLimitRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}
