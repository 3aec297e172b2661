package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/audit"
	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/metrics"
	"github.com/amirbekazimov/ai-detector-backend/internal/repository"
)

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// BatchWriter accumulates envelopes and writes them to the event store
// in batches, flushing on size or on the ticker.
type BatchWriter struct {
	store   repository.EventStore
	auditor audit.Recorder
	metrics *metrics.Metrics
	config  BatchWriterConfig
	log     *zap.Logger
}

// NewBatchWriter creates a new batch writer
func NewBatchWriter(store repository.EventStore, auditor audit.Recorder, m *metrics.Metrics, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	return &BatchWriter{
		store:   store,
		auditor: auditor,
		metrics: m,
		config:  config,
		log:     log,
	}
}

// Start begins processing envelopes, batching, and writing to the store
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			if len(batch) > 0 {
				w.processBatch(ctx, batch)
			}
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				if len(batch) > 0 {
					w.processBatch(ctx, batch)
				}
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.log.Info("Batch size threshold reached", zap.Int("batch_size", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Info("Batch timeout reached", zap.Int("envelope_count", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// processBatch writes one batch and acks or nacks every envelope in it.
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*Envelope) {
	if len(envelopes) == 0 {
		return
	}

	events := make([]*domain.Event, len(envelopes))
	for i, env := range envelopes {
		events[i] = env.Event
	}

	ids, err := w.store.AppendBatch(ctx, events)
	if err != nil {
		w.log.Error("Failed to append batch",
			zap.Error(err),
			zap.Int("event_count", len(events)))
		w.nackAll(ctx, envelopes)
		return
	}

	for _, event := range events {
		w.metrics.EventsIngested.WithLabelValues(metrics.ResultAccepted).Inc()
		if event.IsAIBot {
			w.metrics.BotDetections.WithLabelValues(event.BotName).Inc()
		}
		w.auditor.RecordClassification(event)
	}

	w.log.Info("Appended events",
		zap.Int("count", len(ids)))
	w.ackAll(ctx, envelopes)
}

// ackAll acknowledges all envelopes (deletes from SQS)
func (w *BatchWriter) ackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", zap.Error(err))
		}
	}
}

// nackAll leaves envelopes in the queue for redelivery
func (w *BatchWriter) nackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope", zap.Error(err))
		}
	}
}
