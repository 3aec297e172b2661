// Package sites exposes the externally owned site registry to the core.
// Site registration and ownership CRUD live in another service; this
// package only answers "does caller X own site Y".
package sites

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
)

// Directory reports site ownership. Implementations must return
// domain.ErrSiteNotFound both for nonexistent sites and for sites the
// caller does not own.
type Directory interface {
	Authorize(ctx context.Context, callerID, siteID string) error
}

// RedisDirectory reads the ownership table the site service maintains in
// Redis: a hash mapping site_id to owner caller id.
type RedisDirectory struct {
	client *redis.Client
	key    string
}

// NewRedisDirectory creates a directory using the given Redis client.
func NewRedisDirectory(client *redis.Client) *RedisDirectory {
	return &RedisDirectory{
		client: client,
		key:    "tracking:sites",
	}
}

// Authorize returns nil when callerID owns siteID.
func (d *RedisDirectory) Authorize(ctx context.Context, callerID, siteID string) error {
	owner, err := d.client.HGet(ctx, d.key, siteID).Result()
	if errors.Is(err, redis.Nil) {
		return domain.ErrSiteNotFound
	}
	if err != nil {
		return domain.NewTransientError("look up site owner", err)
	}
	if owner != callerID {
		return domain.ErrSiteNotFound
	}
	return nil
}
