package dto

// TrackEventRequest represents a single tracking event reported by the
// client script. Only site_id is mandatory; everything else is
// best-effort client metadata.
type TrackEventRequest struct {
	SiteID           string `json:"site_id" binding:"required" example:"st_4f9a2c"`
	EventType        string `json:"event_type" example:"page_view"`
	URL              string `json:"url" example:"https://example.com/pricing"`
	Path             string `json:"path" example:"/pricing"`
	Title            string `json:"title" example:"Pricing"`
	Referrer         string `json:"referrer" example:"https://news.ycombinator.com/"`
	UserAgent        string `json:"user_agent" example:"Mozilla/5.0 (compatible; GPTBot/1.0)"`
	Timestamp        string `json:"timestamp" example:"2025-06-14T09:21:44Z"`
	ScreenResolution string `json:"screen_resolution" example:"1920x1080"`
	ViewportSize     string `json:"viewport_size" example:"1280x720"`
	Language         string `json:"language" example:"en-US"`
	Timezone         string `json:"timezone" example:"Europe/Berlin"`
}

// StatsRequest represents dashboard query parameters shared by the
// summary and daily-series endpoints.
type StatsRequest struct {
	Days int `form:"days,default=7" binding:"min=1,max=30" example:"7"`
}

// VisitsRequest represents visit listing query parameters.
type VisitsRequest struct {
	Days   int `form:"days,default=7" binding:"min=1,max=30" example:"7"`
	Limit  int `form:"limit,default=50" binding:"min=1,max=100" example:"50"`
	Offset int `form:"offset,default=0" binding:"min=0" example:"0"`
}
