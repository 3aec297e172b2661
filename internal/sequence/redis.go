// Package sequence allocates per-site event ids. Ids are monotonically
// increasing within one site's stream; gaps are acceptable, reuse is not.
package sequence

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
)

// Allocator hands out the next event id for a site.
type Allocator interface {
	Next(ctx context.Context, siteID string) (uint64, error)
}

// RedisAllocator implements Allocator on a Redis counter per site.
// INCR is atomic, so concurrent appends from any number of processes
// never observe the same id.
type RedisAllocator struct {
	client *redis.Client
	prefix string
}

// NewRedisAllocator creates an allocator using the given Redis client.
func NewRedisAllocator(client *redis.Client) *RedisAllocator {
	return &RedisAllocator{
		client: client,
		prefix: "tracking:seq:",
	}
}

// Next returns the next id in siteID's stream.
func (a *RedisAllocator) Next(ctx context.Context, siteID string) (uint64, error) {
	id, err := a.client.Incr(ctx, a.prefix+siteID).Result()
	if err != nil {
		return 0, domain.NewTransientError("allocate event id", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("sequence for site %s returned non-positive id %d", siteID, id)
	}
	return uint64(id), nil
}
