package consumer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
	"github.com/amirbekazimov/ai-detector-backend/internal/repository"
)

// MockEventStore is a mock implementation of repository.EventStore
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Append(ctx context.Context, event *domain.Event) (uint64, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockEventStore) AppendBatch(ctx context.Context, events []*domain.Event) ([]uint64, error) {
	args := m.Called(ctx, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockEventStore) QueryRange(ctx context.Context, q repository.RangeQuery) ([]domain.Event, uint64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Event), args.Get(1).(uint64), args.Error(2)
}

func (m *MockEventStore) CountByBucket(ctx context.Context, q repository.BucketQuery) ([]repository.BucketCount, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BucketCount), args.Error(1)
}

func (m *MockEventStore) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRecorder is a mock implementation of audit.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordClassification(event *domain.Event) {
	m.Called(event)
}

func createTestEnvelope(siteID string) *Envelope {
	event := &domain.Event{
		SiteID:    siteID,
		EventType: "page_view",
		UserAgent: "Mozilla/5.0 (compatible; GPTBot/1.0)",
		IsAIBot:   true,
		BotName:   "GPTBot",
	}

	ack := func(ctx context.Context) error {
		return nil
	}

	nack := func(ctx context.Context) error {
		return nil
	}

	return NewEnvelope(event, ack, nack)
}

// createTrackedEnvelope counts ack and nack calls.
func createTrackedEnvelope(siteID string, acks, nacks *int32) *Envelope {
	event := &domain.Event{SiteID: siteID, EventType: "page_view"}

	ack := func(ctx context.Context) error {
		atomic.AddInt32(acks, 1)
		return nil
	}

	nack := func(ctx context.Context) error {
		atomic.AddInt32(nacks, 1)
		return nil
	}

	return NewEnvelope(event, ack, nack)
}

func newBatchWriter(store *MockEventStore, recorder *MockRecorder, config BatchWriterConfig) *BatchWriter {
	return NewBatchWriter(store, recorder, testMetrics(), config, zap.NewNop())
}

func TestBatchWriter_Start_BatchSizeThreshold(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 3,
		FlushTimeout: 10 * time.Second,
	}

	writer := newBatchWriter(store, recorder, config)

	store.On("AppendBatch", mock.Anything, mock.MatchedBy(func(events []*domain.Event) bool {
		return len(events) == 3
	})).Return([]uint64{1, 2, 3}, nil)
	recorder.On("RecordClassification", mock.Anything).Return()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	// Send 3 envelopes to trigger batch size threshold
	in <- createTestEnvelope("st_1")
	in <- createTestEnvelope("st_2")
	in <- createTestEnvelope("st_3")

	// Give time for processing
	time.Sleep(100 * time.Millisecond)

	store.AssertExpectations(t)
	recorder.AssertNumberOfCalls(t, "RecordClassification", 3)
}

func TestBatchWriter_Start_TimeoutFlush(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 10,
		FlushTimeout: 50 * time.Millisecond,
	}

	writer := newBatchWriter(store, recorder, config)

	store.On("AppendBatch", mock.Anything, mock.MatchedBy(func(events []*domain.Event) bool {
		return len(events) == 2
	})).Return([]uint64{1, 2}, nil)
	recorder.On("RecordClassification", mock.Anything).Return()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	// Send 2 envelopes (less than max batch size)
	in <- createTestEnvelope("st_1")
	in <- createTestEnvelope("st_2")

	// Wait for timeout to trigger flush
	time.Sleep(100 * time.Millisecond)

	store.AssertExpectations(t)
	store.AssertCalled(t, "AppendBatch", mock.Anything, mock.Anything)
}

func TestBatchWriter_Start_AppendSuccessAcksAll(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 2,
		FlushTimeout: 10 * time.Second,
	}

	writer := newBatchWriter(store, recorder, config)

	store.On("AppendBatch", mock.Anything, mock.Anything).Return([]uint64{1, 2}, nil)
	recorder.On("RecordClassification", mock.Anything).Return()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var acks, nacks int32

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- createTrackedEnvelope("st_1", &acks, &nacks)
	in <- createTrackedEnvelope("st_2", &acks, &nacks)

	// Wait for processing
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&acks))
	assert.Equal(t, int32(0), atomic.LoadInt32(&nacks))
	store.AssertExpectations(t)
}

func TestBatchWriter_Start_AppendFailureNacksAll(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 2,
		FlushTimeout: 10 * time.Second,
	}

	writer := newBatchWriter(store, recorder, config)

	appendErr := domain.NewTransientError("append batch", context.DeadlineExceeded)
	store.On("AppendBatch", mock.Anything, mock.Anything).Return(nil, appendErr)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var acks, nacks int32

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- createTrackedEnvelope("st_1", &acks, &nacks)
	in <- createTrackedEnvelope("st_2", &acks, &nacks)

	// Wait for processing
	time.Sleep(50 * time.Millisecond)

	// Failed envelopes stay in the queue for redelivery.
	assert.Equal(t, int32(0), atomic.LoadInt32(&acks))
	assert.Equal(t, int32(2), atomic.LoadInt32(&nacks))
	recorder.AssertNotCalled(t, "RecordClassification")
}

func TestBatchWriter_Start_GracefulShutdown(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 10,
		FlushTimeout: 10 * time.Second,
	}

	writer := newBatchWriter(store, recorder, config)

	store.On("AppendBatch", mock.Anything, mock.MatchedBy(func(events []*domain.Event) bool {
		return len(events) == 2
	})).Return([]uint64{1, 2}, nil)
	recorder.On("RecordClassification", mock.Anything).Return()

	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan *Envelope, 5)
	done := make(chan bool)

	go func() {
		writer.Start(ctx, in)
		done <- true
	}()

	// Send 2 envelopes
	in <- createTestEnvelope("st_1")
	in <- createTestEnvelope("st_2")

	// Give time for messages to be received
	time.Sleep(10 * time.Millisecond)

	// Cancel context to trigger graceful shutdown
	cancel()

	// Wait for shutdown
	select {
	case <-done:
		// Shutdown completed
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Graceful shutdown took too long")
	}

	store.AssertExpectations(t)
	store.AssertCalled(t, "AppendBatch", mock.Anything, mock.Anything)
}

func TestBatchWriter_Start_InputChannelClosed(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 10,
		FlushTimeout: 10 * time.Second,
	}

	writer := newBatchWriter(store, recorder, config)

	store.On("AppendBatch", mock.Anything, mock.MatchedBy(func(events []*domain.Event) bool {
		return len(events) == 2
	})).Return([]uint64{1, 2}, nil)
	recorder.On("RecordClassification", mock.Anything).Return()

	ctx := context.Background()

	in := make(chan *Envelope, 5)
	done := make(chan bool)

	go func() {
		writer.Start(ctx, in)
		done <- true
	}()

	// Send 2 envelopes
	in <- createTestEnvelope("st_1")
	in <- createTestEnvelope("st_2")

	// Close input channel
	close(in)

	// Wait for shutdown
	select {
	case <-done:
		// Shutdown completed
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Shutdown took too long after input channel closed")
	}

	store.AssertExpectations(t)
	store.AssertCalled(t, "AppendBatch", mock.Anything, mock.Anything)
}

func TestBatchWriter_Start_EmptyBatchNotFlushed(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 10,
		FlushTimeout: 50 * time.Millisecond,
	}

	writer := newBatchWriter(store, recorder, config)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	// Don't send any envelopes

	// Wait for timeout
	<-ctx.Done()

	// AppendBatch should not be called for empty batch
	store.AssertNotCalled(t, "AppendBatch")
}

func TestBatchWriter_Start_MultipleBatches(t *testing.T) {
	store := new(MockEventStore)
	recorder := new(MockRecorder)

	config := BatchWriterConfig{
		MaxBatchSize: 2,
		FlushTimeout: 10 * time.Second,
	}

	writer := newBatchWriter(store, recorder, config)

	// Expect two batches of 2 events each
	store.On("AppendBatch", mock.Anything, mock.MatchedBy(func(events []*domain.Event) bool {
		return len(events) == 2
	})).Return([]uint64{1, 2}, nil).Times(2)
	recorder.On("RecordClassification", mock.Anything).Return()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	in := make(chan *Envelope, 10)
	go writer.Start(ctx, in)

	// Send 4 envelopes (should create 2 batches)
	in <- createTestEnvelope("st_1")
	in <- createTestEnvelope("st_2")
	in <- createTestEnvelope("st_3")
	in <- createTestEnvelope("st_4")

	// Wait for processing
	time.Sleep(100 * time.Millisecond)

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "AppendBatch", 2)
}
