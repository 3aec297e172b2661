package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/dto"
	"github.com/amirbekazimov/ai-detector-backend/internal/repository"
	"github.com/amirbekazimov/ai-detector-backend/internal/sites"
)

const (
	minDays  = 1
	maxDays  = 30
	minLimit = 1
	maxLimit = 100
)

// StatsService serves read-only dashboard aggregations over the event
// store. It holds no state of its own and never writes.
type StatsService struct {
	store     repository.EventStore
	directory sites.Directory
	log       *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(store repository.EventStore, directory sites.Directory, log *zap.Logger) *StatsService {
	return &StatsService{
		store:     store,
		directory: directory,
		log:       log,
	}
}

// Summary returns event totals and the per-agent breakdown for the last
// `days` calendar days, today included.
func (s *StatsService) Summary(ctx context.Context, callerID, siteID string, days int) (*dto.SummaryResponse, error) {
	if err := s.authorize(ctx, callerID, siteID, days); err != nil {
		return nil, err
	}

	buckets, err := s.countDays(ctx, siteID, days)
	if err != nil {
		return nil, err
	}

	resp := &dto.SummaryResponse{
		SiteID:     siteID,
		PeriodDays: days,
		ByAgent:    map[string]uint64{},
	}

	for _, b := range buckets {
		resp.TotalEvents += b.Total
		resp.BotEvents += b.Bot
		for agent, count := range b.ByAgent {
			resp.ByAgent[agent] += count
		}
	}
	resp.HumanEvents = resp.TotalEvents - resp.BotEvents

	return resp, nil
}

// DailySeries returns one entry per calendar day, oldest first. Days with
// no traffic are present with zero counts.
func (s *StatsService) DailySeries(ctx context.Context, callerID, siteID string, days int) (*dto.DailySeriesResponse, error) {
	if err := s.authorize(ctx, callerID, siteID, days); err != nil {
		return nil, err
	}

	buckets, err := s.countDays(ctx, siteID, days)
	if err != nil {
		return nil, err
	}

	series := make([]dto.DailyStat, len(buckets))
	for i, b := range buckets {
		series[i] = dto.DailyStat{
			Date:  b.Start.Format("2006-01-02"),
			Total: b.Total,
			Bot:   b.Bot,
			Human: b.Total - b.Bot,
		}
	}

	return &dto.DailySeriesResponse{
		SiteID:     siteID,
		PeriodDays: days,
		Days:       series,
	}, nil
}

// Visits returns one page of raw events in the window, newest first,
// plus the total match count for pagination.
func (s *StatsService) Visits(ctx context.Context, callerID, siteID string, days, limit, offset int) (*dto.VisitsResponse, error) {
	if err := s.authorize(ctx, callerID, siteID, days); err != nil {
		return nil, err
	}
	if limit < minLimit || limit > maxLimit {
		return nil, domain.NewValidationError("limit", fmt.Sprintf("must be between %d and %d", minLimit, maxLimit))
	}
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "must not be negative")
	}

	from, to := window(days)
	events, total, err := s.store.QueryRange(ctx, repository.RangeQuery{
		SiteID: siteID,
		From:   from,
		To:     to,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return &dto.VisitsResponse{
		SiteID:     siteID,
		Visits:     events,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (s *StatsService) authorize(ctx context.Context, callerID, siteID string, days int) error {
	if days < minDays || days > maxDays {
		return domain.NewValidationError("days", fmt.Sprintf("must be between %d and %d", minDays, maxDays))
	}
	if siteID == "" {
		return domain.NewValidationError("site_id", "required")
	}
	return s.directory.Authorize(ctx, callerID, siteID)
}

func (s *StatsService) countDays(ctx context.Context, siteID string, days int) ([]repository.BucketCount, error) {
	from, to := window(days)
	return s.store.CountByBucket(ctx, repository.BucketQuery{
		SiteID: siteID,
		From:   from,
		To:     to,
		Bucket: 24 * time.Hour,
	})
}

// window returns the UTC day-aligned interval [from, to) spanning the
// last `days` calendar days including today.
func window(days int) (time.Time, time.Time) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	to := today.Add(24 * time.Hour)
	from := to.Add(-time.Duration(days) * 24 * time.Hour)
	return from, to
}
