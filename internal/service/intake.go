package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/audit"
	"github.com/amirbekazimov/ai-detector-backend/internal/classifier"
	"github.com/amirbekazimov/ai-detector-backend/internal/config"
	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/dto"
	"github.com/amirbekazimov/ai-detector-backend/internal/metrics"
	"github.com/amirbekazimov/ai-detector-backend/internal/repository"
)

// IntakeService validates, classifies, and persists tracking events.
type IntakeService struct {
	store   repository.EventStore
	auditor audit.Recorder
	metrics *metrics.Metrics
	limits  config.Limits
	log     *zap.Logger
}

// NewIntakeService creates a new intake service
func NewIntakeService(store repository.EventStore, auditor audit.Recorder, m *metrics.Metrics, limits config.Limits, log *zap.Logger) *IntakeService {
	return &IntakeService{
		store:   store,
		auditor: auditor,
		metrics: m,
		limits:  limits,
		log:     log,
	}
}

// Prepare validates and enriches one raw event without persisting it.
// An unparseable or missing client timestamp is not an error; it falls
// back to receivedAt. The classification result is final: it is computed
// here once and never revised.
func (s *IntakeService) Prepare(req *dto.TrackEventRequest, clientIP string, receivedAt time.Time) (*domain.Event, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	isBot, botName := classifier.Classify(req.UserAgent)

	return &domain.Event{
		SiteID:           req.SiteID,
		EventType:        req.EventType,
		URL:              req.URL,
		Path:             req.Path,
		Title:            req.Title,
		Referrer:         req.Referrer,
		UserAgent:        req.UserAgent,
		IPAddress:        clientIP,
		ScreenResolution: req.ScreenResolution,
		ViewportSize:     req.ViewportSize,
		Language:         req.Language,
		Timezone:         req.Timezone,
		IsAIBot:          isBot,
		BotName:          botName,
		Timestamp:        parseClientTimestamp(req.Timestamp, receivedAt),
		CreatedAt:        receivedAt,
	}, nil
}

// IngestEvent processes a single event end to end and returns the
// persisted event with its assigned id.
func (s *IntakeService) IngestEvent(ctx context.Context, req *dto.TrackEventRequest, clientIP string) (*domain.Event, error) {
	event, err := s.Prepare(req, clientIP, time.Now().UTC())
	if err != nil {
		s.metrics.EventsIngested.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, err
	}

	id, err := s.store.Append(ctx, event)
	if err != nil {
		s.metrics.EventsIngested.WithLabelValues(metrics.ResultFailed).Inc()
		s.log.Error("Failed to append event",
			zap.String("site_id", event.SiteID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	s.metrics.EventsIngested.WithLabelValues(metrics.ResultAccepted).Inc()
	if event.IsAIBot {
		s.metrics.BotDetections.WithLabelValues(event.BotName).Inc()
	}
	s.auditor.RecordClassification(event)

	s.log.Info("Event accepted",
		zap.Uint64("event_id", id),
		zap.String("site_id", event.SiteID),
		zap.Bool("is_ai_bot", event.IsAIBot))

	return event, nil
}

// IngestBatch processes each event independently and returns one result
// per input item, in input order. A failing item never aborts the rest.
func (s *IntakeService) IngestBatch(ctx context.Context, reqs []dto.TrackEventRequest, clientIP string) []dto.BatchItemResult {
	results := make([]dto.BatchItemResult, len(reqs))

	for i := range reqs {
		event, err := s.IngestEvent(ctx, &reqs[i], clientIP)
		if err != nil {
			status := "failed"
			if domain.IsValidation(err) {
				status = "rejected"
			}
			results[i] = dto.BatchItemResult{Status: status, Error: err.Error()}
			s.log.Warn("Failed to process event in batch",
				zap.Int("index", i),
				zap.String("site_id", reqs[i].SiteID),
				zap.Error(err))
			continue
		}
		results[i] = dto.BatchItemResult{Status: "accepted", EventID: event.ID}
	}

	return results
}

func (s *IntakeService) validate(req *dto.TrackEventRequest) error {
	if req.SiteID == "" {
		return domain.NewValidationError("site_id", "required")
	}

	limits := []struct {
		field string
		value string
		max   int
	}{
		{"site_id", req.SiteID, s.limits.MaxSiteIDLen},
		{"event_type", req.EventType, s.limits.MaxEventTypeLen},
		{"url", req.URL, s.limits.MaxURLLen},
		{"path", req.Path, s.limits.MaxURLLen},
		{"title", req.Title, s.limits.MaxTitleLen},
		{"referrer", req.Referrer, s.limits.MaxURLLen},
		{"user_agent", req.UserAgent, s.limits.MaxUserAgentLen},
		{"screen_resolution", req.ScreenResolution, s.limits.MaxMetaLen},
		{"viewport_size", req.ViewportSize, s.limits.MaxMetaLen},
		{"language", req.Language, s.limits.MaxMetaLen},
		{"timezone", req.Timezone, s.limits.MaxMetaLen},
	}

	for _, l := range limits {
		if len(l.value) > l.max {
			return domain.NewValidationError(l.field, fmt.Sprintf("exceeds %d bytes", l.max))
		}
	}

	return nil
}

// parseClientTimestamp accepts RFC 3339 (what the tracking script sends)
// or Unix seconds. Anything else silently falls back to the receipt time.
func parseClientTimestamp(raw string, receivedAt time.Time) time.Time {
	if raw == "" {
		return receivedAt
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC()
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC()
	}
	return receivedAt
}
