package service

import (
	"context"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/dto"
)

// EventIntaker defines the interface for event intake operations
type EventIntaker interface {
	IngestEvent(ctx context.Context, req *dto.TrackEventRequest, clientIP string) (*domain.Event, error)
	IngestBatch(ctx context.Context, reqs []dto.TrackEventRequest, clientIP string) []dto.BatchItemResult
}

// StatsProvider defines the interface for dashboard aggregation queries
type StatsProvider interface {
	Summary(ctx context.Context, callerID, siteID string, days int) (*dto.SummaryResponse, error)
	DailySeries(ctx context.Context, callerID, siteID string, days int) (*dto.DailySeriesResponse, error)
	Visits(ctx context.Context, callerID, siteID string, days, limit, offset int) (*dto.VisitsResponse, error)
}
