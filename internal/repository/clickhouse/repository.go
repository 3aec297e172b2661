package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/repository"
	"github.com/amirbekazimov/ai-detector-backend/internal/sequence"
)

const eventColumns = `id, site_id, event_type, url, path, title, referrer,
	user_agent, ip_address, screen_resolution, viewport_size, language,
	timezone, is_ai_bot, bot_name, timestamp, created_at`

// Repository implements repository.EventStore for ClickHouse. Rows are
// append-only; there is no update or delete path.
type Repository struct {
	client    *Client
	sequencer sequence.Allocator
	log       *zap.Logger
}

// NewRepository creates a new ClickHouse event store
func NewRepository(client *Client, sequencer sequence.Allocator, log *zap.Logger) *Repository {
	return &Repository{
		client:    client,
		sequencer: sequencer,
		log:       log,
	}
}

// InitSchema creates the tracking_events table if it does not exist.
// The sort key (site_id, created_at, id) is the query key for both the
// range listing and the bucketed counts.
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS tracking_events (
		id UInt64,
		site_id String,
		event_type LowCardinality(String),
		url String,
		path String,
		title String,
		referrer String,
		user_agent String,
		ip_address String,
		screen_resolution String,
		viewport_size String,
		language String,
		timezone String,
		is_ai_bot Bool,
		bot_name LowCardinality(String),
		timestamp DateTime64(3),
		created_at DateTime64(3)
	) ENGINE = MergeTree
	ORDER BY (site_id, created_at, id)
	PARTITION BY toYYYYMM(created_at)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tracking_events table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized")
	return nil
}

// Append assigns the event its per-site id and persists it.
func (r *Repository) Append(ctx context.Context, event *domain.Event) (uint64, error) {
	id, err := r.sequencer.Next(ctx, event.SiteID)
	if err != nil {
		return 0, err
	}
	event.ID = id

	ctx, cancel := context.WithTimeout(ctx, r.client.QueryTimeout())
	defer cancel()

	query := fmt.Sprintf("INSERT INTO tracking_events (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", eventColumns)
	if err := r.client.Conn().Exec(ctx, query, eventArgs(event)...); err != nil {
		return 0, domain.NewTransientError("append event", err)
	}

	return id, nil
}

// AppendBatch persists events in one insert and returns their assigned
// ids in input order.
func (r *Repository) AppendBatch(ctx context.Context, events []*domain.Event) ([]uint64, error) {
	if len(events) == 0 {
		return nil, nil
	}

	ids := make([]uint64, len(events))
	for i, event := range events {
		id, err := r.sequencer.Next(ctx, event.SiteID)
		if err != nil {
			return nil, err
		}
		event.ID = id
		ids[i] = id
	}

	ctx, cancel := context.WithTimeout(ctx, r.client.QueryTimeout())
	defer cancel()

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO tracking_events")
	if err != nil {
		return nil, domain.NewTransientError("prepare event batch", err)
	}

	for _, event := range events {
		if err := batch.Append(eventArgs(event)...); err != nil {
			return nil, domain.NewTransientError("append event to batch", err)
		}
	}

	if err := batch.Send(); err != nil {
		return nil, domain.NewTransientError("send event batch", err)
	}

	return ids, nil
}

// QueryRange returns one page of events, newest first, plus the total
// match count before pagination.
func (r *Repository) QueryRange(ctx context.Context, q repository.RangeQuery) ([]domain.Event, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.QueryTimeout())
	defer cancel()

	where := "WHERE site_id = ? AND created_at >= ? AND created_at < ?"
	args := []interface{}{q.SiteID, q.From, q.To}

	var total uint64
	countQuery := fmt.Sprintf("SELECT count() FROM tracking_events %s", where)
	if err := r.client.Conn().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, domain.NewTransientError("count events", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM tracking_events
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, eventColumns, where)

	rows, err := r.client.Conn().Query(ctx, listQuery, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, domain.NewTransientError("query events", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close event rows", zap.Error(err))
		}
	}(rows)

	events := make([]domain.Event, 0, q.Limit)
	for rows.Next() {
		var event domain.Event
		if err := rows.ScanStruct(&event); err != nil {
			return nil, 0, domain.NewTransientError("scan event row", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, domain.NewTransientError("iterate event rows", err)
	}

	return events, total, nil
}

// CountByBucket returns contiguous bucket counts covering [From, To),
// oldest first. Buckets with no events are zero-filled so callers never
// need gap handling.
func (r *Repository) CountByBucket(ctx context.Context, q repository.BucketQuery) ([]repository.BucketCount, error) {
	ctx, cancel := context.WithTimeout(ctx, r.client.QueryTimeout())
	defer cancel()

	buckets := emptyBuckets(q)

	// bot_name is empty for human traffic, so one grouped scan yields the
	// total, bot, and per-agent counts at once.
	query := fmt.Sprintf(`
		SELECT
			toStartOfInterval(created_at, INTERVAL %d SECOND) AS bucket,
			bot_name,
			count() AS events
		FROM tracking_events
		WHERE site_id = ? AND created_at >= ? AND created_at < ?
		GROUP BY bucket, bot_name
	`, int64(q.Bucket.Seconds()))

	rows, err := r.client.Conn().Query(ctx, query, q.SiteID, q.From, q.To)
	if err != nil {
		return nil, domain.NewTransientError("query bucket counts", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close bucket rows", zap.Error(err))
		}
	}(rows)

	for rows.Next() {
		var (
			start   time.Time
			botName string
			count   uint64
		)
		if err := rows.Scan(&start, &botName, &count); err != nil {
			return nil, domain.NewTransientError("scan bucket row", err)
		}

		idx := int(start.Sub(q.From) / q.Bucket)
		if idx < 0 || idx >= len(buckets) {
			r.log.Warn("Bucket outside queried window",
				zap.Time("bucket", start),
				zap.String("site_id", q.SiteID))
			continue
		}

		buckets[idx].Total += count
		if botName != "" {
			buckets[idx].Bot += count
			buckets[idx].ByAgent[botName] += count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewTransientError("iterate bucket rows", err)
	}

	return buckets, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func eventArgs(event *domain.Event) []interface{} {
	return []interface{}{
		event.ID,
		event.SiteID,
		event.EventType,
		event.URL,
		event.Path,
		event.Title,
		event.Referrer,
		event.UserAgent,
		event.IPAddress,
		event.ScreenResolution,
		event.ViewportSize,
		event.Language,
		event.Timezone,
		event.IsAIBot,
		event.BotName,
		event.Timestamp,
		event.CreatedAt,
	}
}

func emptyBuckets(q repository.BucketQuery) []repository.BucketCount {
	n := int(q.To.Sub(q.From) / q.Bucket)
	if q.From.Add(time.Duration(n)*q.Bucket).Before(q.To) {
		n++
	}

	buckets := make([]repository.BucketCount, n)
	for i := range buckets {
		buckets[i] = repository.BucketCount{
			Start:   q.From.Add(time.Duration(i) * q.Bucket),
			ByAgent: map[string]uint64{},
		}
	}
	return buckets
}
