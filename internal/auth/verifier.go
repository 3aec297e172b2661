// Package auth resolves dashboard bearer tokens to caller identities.
// Token issuance belongs to the external account service; the core only
// looks tokens up.
package auth

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
)

// ErrInvalidToken is returned for unknown or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Verifier resolves an opaque bearer token to a caller id.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// RedisVerifier reads the token table the account service maintains in
// Redis: token key to caller id, expiry handled by the writer via TTL.
type RedisVerifier struct {
	client *redis.Client
	prefix string
}

// NewRedisVerifier creates a verifier using the given Redis client.
func NewRedisVerifier(client *redis.Client) *RedisVerifier {
	return &RedisVerifier{
		client: client,
		prefix: "tracking:token:",
	}
}

// Verify returns the caller id the token belongs to.
func (v *RedisVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	callerID, err := v.client.Get(ctx, v.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", domain.NewTransientError("look up token", err)
	}
	return callerID, nil
}
