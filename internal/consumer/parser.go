package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/dto"
)

// QueuedEvent is the message shape edge collectors enqueue: the public
// tracking-event payload plus the client address the collector observed.
type QueuedEvent struct {
	dto.TrackEventRequest
	ClientIP string `json:"client_ip"`
}

// TrackingMessageParser implements MessageParser for queued tracking events.
// Parsed events go through the same validation and classification as the
// HTTP intake path.
type TrackingMessageParser struct {
	preparer EventPreparer
}

// NewTrackingMessageParser creates a parser backed by the given preparer.
func NewTrackingMessageParser(preparer EventPreparer) *TrackingMessageParser {
	return &TrackingMessageParser{preparer: preparer}
}

// Parse decodes a queued message body and prepares the event for storage.
func (p *TrackingMessageParser) Parse(body []byte) (*domain.Event, error) {
	var msg QueuedEvent
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	event, err := p.preparer.Prepare(&msg.TrackEventRequest, msg.ClientIP, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare queued event: %w", err)
	}

	return event, nil
}
