package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/auth"
	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/dto"
	"github.com/amirbekazimov/ai-detector-backend/internal/service"
)

const callerIDKey = "callerID"

type Handler struct {
	intake   service.EventIntaker
	stats    service.StatsProvider
	verifier auth.Verifier
	router   *gin.Engine
	log      *zap.Logger
}

func NewHandler(intake service.EventIntaker, stats service.StatsProvider, verifier auth.Verifier, gatherer prometheus.Gatherer, log *zap.Logger) *Handler {
	h := &Handler{
		intake:   intake,
		stats:    stats,
		verifier: verifier,
		router:   gin.Default(),
		log:      log,
	}

	h.registerRoutes(gatherer)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes(gatherer prometheus.Gatherer) {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	tracking := h.router.Group("/api/v1/tracking")
	tracking.POST("/events", h.trackEvent)
	tracking.POST("/events/batch", h.trackEventsBatch)

	dashboard := h.router.Group("/api/v1/dashboard")
	dashboard.Use(h.authenticate)
	dashboard.GET("/stats/:site_id", h.getStats)
	dashboard.GET("/daily-stats/:site_id", h.getDailyStats)
	dashboard.GET("/visits/:site_id", h.getVisits)
}

// authenticate resolves the bearer token to a caller id. Dashboard
// routes never run without one.
func (h *Handler) authenticate(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))

	callerID, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "unauthorized",
			})
			return
		}
		h.log.Error("Token verification failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "transient_error",
			Message: "try again later",
		})
		return
	}

	c.Set(callerIDKey, callerID)
	c.Next()
}

// healthCheck handles health check requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// trackEvent handles POST /api/v1/tracking/events
// @Summary Ingest a single tracking event
// @Description Validate, classify, and persist one client-reported event
// @Tags tracking
// @Accept json
// @Produce json
// @Param event body dto.TrackEventRequest true "Event data"
// @Success 202 {object} dto.TrackEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/tracking/events [post]
func (h *Handler) trackEvent(c *gin.Context) {
	var req dto.TrackEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid tracking request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	event, err := h.intake.IngestEvent(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		h.writeError(c, err, "Failed to ingest event", zap.String("site_id", req.SiteID))
		return
	}

	c.JSON(http.StatusAccepted, dto.TrackEventResponse{
		Status:  "accepted",
		EventID: event.ID,
		IsAIBot: event.IsAIBot,
		BotName: event.BotName,
	})
}

// trackEventsBatch handles POST /api/v1/tracking/events/batch
// @Summary Ingest a batch of tracking events
// @Description Each item is processed independently; the response holds one result per input item in input order
// @Tags tracking
// @Accept json
// @Produce json
// @Param events body []dto.TrackEventRequest true "Events"
// @Success 202 {array} dto.BatchItemResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/tracking/events/batch [post]
func (h *Handler) trackEventsBatch(c *gin.Context) {
	// Decoded without binding validation on purpose: a malformed item
	// must yield a per-item error, not reject the whole batch.
	var reqs []dto.TrackEventRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&reqs); err != nil {
		h.log.Warn("Invalid batch tracking request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	results := h.intake.IngestBatch(c.Request.Context(), reqs, c.ClientIP())

	h.log.Info("Batch processed", zap.Int("items", len(results)))

	if results == nil {
		results = []dto.BatchItemResult{}
	}
	c.JSON(http.StatusAccepted, results)
}

// getStats handles GET /api/v1/dashboard/stats/:site_id
// @Summary Site traffic summary
// @Tags dashboard
// @Produce json
// @Param site_id path string true "Site ID"
// @Param days query int false "Window in days, 1-30" default(7)
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/dashboard/stats/{site_id} [get]
func (h *Handler) getStats(c *gin.Context) {
	var req dto.StatsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.stats.Summary(c.Request.Context(), c.GetString(callerIDKey), c.Param("site_id"), req.Days)
	if err != nil {
		h.writeError(c, err, "Failed to get summary", zap.String("site_id", c.Param("site_id")))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDailyStats handles GET /api/v1/dashboard/daily-stats/:site_id
// @Summary Daily traffic series
// @Tags dashboard
// @Produce json
// @Param site_id path string true "Site ID"
// @Param days query int false "Window in days, 1-30" default(7)
// @Success 200 {object} dto.DailySeriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/dashboard/daily-stats/{site_id} [get]
func (h *Handler) getDailyStats(c *gin.Context) {
	var req dto.StatsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.stats.DailySeries(c.Request.Context(), c.GetString(callerIDKey), c.Param("site_id"), req.Days)
	if err != nil {
		h.writeError(c, err, "Failed to get daily series", zap.String("site_id", c.Param("site_id")))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getVisits handles GET /api/v1/dashboard/visits/:site_id
// @Summary Paginated visit listing
// @Tags dashboard
// @Produce json
// @Param site_id path string true "Site ID"
// @Param days query int false "Window in days, 1-30" default(7)
// @Param limit query int false "Page size, 1-100" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.VisitsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/dashboard/visits/{site_id} [get]
func (h *Handler) getVisits(c *gin.Context) {
	var req dto.VisitsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.stats.Visits(c.Request.Context(), c.GetString(callerIDKey), c.Param("site_id"), req.Days, req.Limit, req.Offset)
	if err != nil {
		h.writeError(c, err, "Failed to get visits", zap.String("site_id", c.Param("site_id")))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.log.Warn("Invalid dashboard query", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// writeError maps the error taxonomy onto HTTP statuses: validation 400,
// unknown site 404, transient storage 503, everything else 500.
func (h *Handler) writeError(c *gin.Context, err error, msg string, fields ...zap.Field) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrSiteNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: "site not found",
		})
	case domain.IsTransient(err):
		h.log.Error(msg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "transient_error",
			Message: "storage temporarily unavailable, retry",
		})
	default:
		h.log.Error(msg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
