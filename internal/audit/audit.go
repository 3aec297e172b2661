// Package audit emits structured records of classification outcomes for
// the external observability collector.
package audit

import (
	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
)

// Recorder receives one record per accepted event. Implementations must
// be safe for concurrent use.
type Recorder interface {
	RecordClassification(event *domain.Event)
}

// ZapRecorder writes audit records to a structured log stream.
type ZapRecorder struct {
	log *zap.Logger
}

// NewZapRecorder creates a recorder on top of the given logger.
func NewZapRecorder(log *zap.Logger) *ZapRecorder {
	return &ZapRecorder{log: log.Named("audit")}
}

// RecordClassification logs the classification outcome of one event.
func (r *ZapRecorder) RecordClassification(event *domain.Event) {
	r.log.Info("Event classified",
		zap.Uint64("event_id", event.ID),
		zap.String("site_id", event.SiteID),
		zap.String("event_type", event.EventType),
		zap.String("ip_address", event.IPAddress),
		zap.Bool("is_ai_bot", event.IsAIBot),
		zap.String("bot_name", event.BotName))
}
