package repository

import (
	"context"
	"time"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
)

// RangeQuery selects events of one site within [From, To), paginated.
type RangeQuery struct {
	SiteID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// BucketQuery requests per-bucket counts for one site over [From, To).
// Bucket is the fixed bucket width; From must be aligned to it.
type BucketQuery struct {
	SiteID string
	From   time.Time
	To     time.Time
	Bucket time.Duration
}

// BucketCount holds event counts for one bucket. Buckets with no events
// are still emitted with zero counts and a non-nil empty ByAgent map.
type BucketCount struct {
	Start   time.Time
	Total   uint64
	Bot     uint64
	ByAgent map[string]uint64
}

// EventStore defines the append-only event persistence interface.
// Events are created once and never updated or deleted.
type EventStore interface {
	// Append assigns the event its per-site id, persists it, and returns
	// the id. Failures of the underlying medium surface as transient errors.
	Append(ctx context.Context, event *domain.Event) (uint64, error)

	// AppendBatch persists events in a single storage round trip and
	// returns their assigned ids in input order.
	AppendBatch(ctx context.Context, events []*domain.Event) ([]uint64, error)

	// QueryRange returns matching events ordered by created_at descending,
	// id descending, plus the total match count before pagination.
	QueryRange(ctx context.Context, q RangeQuery) ([]domain.Event, uint64, error)

	// CountByBucket returns contiguous zero-filled bucket counts covering
	// the queried window, oldest bucket first.
	CountByBucket(ctx context.Context, q BucketQuery) ([]BucketCount, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
