package dto

import "github.com/amirbekazimov/ai-detector-backend/internal/domain"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"site_id is required"`
}

// TrackEventResponse represents a successful event ingestion response
type TrackEventResponse struct {
	Status  string `json:"status" example:"accepted"`
	EventID uint64 `json:"event_id" example:"1042"`
	IsAIBot bool   `json:"is_ai_bot" example:"true"`
	BotName string `json:"bot_name,omitempty" example:"GPTBot"`
}

// BatchItemResult is the per-item outcome of a batch ingestion. Exactly
// one of EventID or Error is meaningful, selected by Status.
type BatchItemResult struct {
	Status  string `json:"status" example:"accepted"`
	EventID uint64 `json:"event_id,omitempty" example:"1043"`
	Error   string `json:"error,omitempty" example:"invalid site_id: required"`
}

// SummaryResponse represents the dashboard summary for one site.
type SummaryResponse struct {
	SiteID      string            `json:"site_id" example:"st_4f9a2c"`
	PeriodDays  int               `json:"period_days" example:"7"`
	TotalEvents uint64            `json:"total_events" example:"5120"`
	BotEvents   uint64            `json:"bot_events" example:"311"`
	HumanEvents uint64            `json:"human_events" example:"4809"`
	ByAgent     map[string]uint64 `json:"by_agent"`
}

// DailyStat is one calendar day of the daily series.
type DailyStat struct {
	Date  string `json:"date" example:"2025-06-14"`
	Total uint64 `json:"total" example:"731"`
	Bot   uint64 `json:"bot" example:"44"`
	Human uint64 `json:"human" example:"687"`
}

// DailySeriesResponse represents the daily series for one site,
// oldest day first, one entry per requested day.
type DailySeriesResponse struct {
	SiteID     string      `json:"site_id" example:"st_4f9a2c"`
	PeriodDays int         `json:"period_days" example:"7"`
	Days       []DailyStat `json:"days"`
}

// VisitsResponse represents a page of raw events, newest first.
type VisitsResponse struct {
	SiteID     string         `json:"site_id" example:"st_4f9a2c"`
	Visits     []domain.Event `json:"visits"`
	TotalCount uint64         `json:"total_count" example:"120"`
	Limit      int            `json:"limit" example:"50"`
	Offset     int            `json:"offset" example:"0"`
}
