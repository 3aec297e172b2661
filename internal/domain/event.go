package domain

import "time"

// Event represents a tracking event stored in ClickHouse
type Event struct {
	ID               uint64    `ch:"id" json:"id"`
	SiteID           string    `ch:"site_id" json:"site_id"`
	EventType        string    `ch:"event_type" json:"event_type"`
	URL              string    `ch:"url" json:"url"`
	Path             string    `ch:"path" json:"path"`
	Title            string    `ch:"title" json:"title"`
	Referrer         string    `ch:"referrer" json:"referrer"`
	UserAgent        string    `ch:"user_agent" json:"user_agent"`
	IPAddress        string    `ch:"ip_address" json:"ip_address"`
	ScreenResolution string    `ch:"screen_resolution" json:"screen_resolution,omitempty"`
	ViewportSize     string    `ch:"viewport_size" json:"viewport_size,omitempty"`
	Language         string    `ch:"language" json:"language,omitempty"`
	Timezone         string    `ch:"timezone" json:"timezone,omitempty"`
	IsAIBot          bool      `ch:"is_ai_bot" json:"is_ai_bot"`
	BotName          string    `ch:"bot_name" json:"bot_name,omitempty"`
	Timestamp        time.Time `ch:"timestamp" json:"timestamp"`
	CreatedAt        time.Time `ch:"created_at" json:"created_at"`
}
