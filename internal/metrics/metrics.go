// Package metrics exposes Prometheus instrumentation for the intake path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the intake counters. Construct once per process and
// inject where needed.
type Metrics struct {
	EventsIngested *prometheus.CounterVec
	BotDetections  *prometheus.CounterVec
}

// New registers the intake counters on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracking_events_ingested_total",
			Help: "Tracking events received at intake, by outcome.",
		}, []string{"result"}),
		BotDetections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracking_bot_detections_total",
			Help: "Ingested events classified as AI agents, by agent name.",
		}, []string{"agent"}),
	}

	reg.MustRegister(m.EventsIngested, m.BotDetections)
	return m
}

// Ingest outcome label values.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)
