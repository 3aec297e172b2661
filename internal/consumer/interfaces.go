package consumer

import (
	"time"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/dto"
)

// MessageParser defines the interface for parsing raw message bytes into events
type MessageParser interface {
	Parse(body []byte) (*domain.Event, error)
}

// EventPreparer validates, classifies, and enriches a raw tracking event.
// Implemented by service.IntakeService.
type EventPreparer interface {
	Prepare(req *dto.TrackEventRequest, clientIP string, receivedAt time.Time) (*domain.Event, error)
}
