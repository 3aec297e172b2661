package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/config"
	"github.com/amirbekazimov/ai-detector-backend/internal/domain"
)

func TestConsumer_Start_PipelineCoordination(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	store := new(MockEventStore)
	mockParser := new(MockMessageParser)
	recorder := new(MockRecorder)
	log := zap.NewNop()

	cfg := &config.Config{
		Consumer: config.Consumer{
			BatchSizeMax:    10,
			BatchTimeoutSec: 1,
		},
	}

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/tracking-events")

	messages := []types.Message{
		{
			MessageId:     aws.String("msg-1"),
			Body:          aws.String(`{"site_id": "st_4f9a2c"}`),
			ReceiptHandle: aws.String("receipt-1"),
		},
	}

	event := &domain.Event{
		SiteID:    "st_4f9a2c",
		EventType: "page_view",
		IsAIBot:   true,
		BotName:   "GPTBot",
	}

	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: messages}, nil).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	mockParser.On("Parse", []byte(`{"site_id": "st_4f9a2c"}`)).Return(event, nil)
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil)

	store.On("AppendBatch", mock.Anything, mock.MatchedBy(func(events []*domain.Event) bool {
		return len(events) == 1 && events[0].SiteID == "st_4f9a2c"
	})).Return([]uint64{1}, nil)
	recorder.On("RecordClassification", mock.Anything).Return()

	m := testMetrics()

	// Assemble the pipeline around the mocked parser
	receiver := NewReceiver(mockConsumer, ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
		BufferSize:      100,
	}, log)

	parser := NewParserStage(mockConsumer, mockParser, m, log)

	batchWriter := NewBatchWriter(store, recorder, m, BatchWriterConfig{
		MaxBatchSize: cfg.Consumer.BatchSizeMax,
		FlushTimeout: time.Duration(cfg.Consumer.BatchTimeoutSec) * time.Second,
	}, log)

	consumer := &Consumer{
		receiver:    receiver,
		parser:      parser,
		batchWriter: batchWriter,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := consumer.Start(ctx)

	assert.NoError(t, err)
	store.AssertCalled(t, "AppendBatch", mock.Anything, mock.Anything)
	recorder.AssertCalled(t, "RecordClassification", mock.Anything)
}

func TestConsumer_Start_GracefulShutdown(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	store := new(MockEventStore)
	preparer := new(MockPreparer)
	recorder := new(MockRecorder)
	log := zap.NewNop()

	cfg := &config.Config{
		Consumer: config.Consumer{
			BatchSizeMax:    10,
			BatchTimeoutSec: 1,
		},
	}

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/tracking-events").Maybe()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	consumer := NewConsumer(cfg, mockConsumer, store, preparer, recorder, testMetrics(), log)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool)
	go func() {
		err := consumer.Start(ctx)
		assert.NoError(t, err)
		done <- true
	}()

	// Let it run for a bit
	time.Sleep(50 * time.Millisecond)

	// Cancel context to trigger shutdown
	cancel()

	// Wait for shutdown
	select {
	case <-done:
		// Shutdown completed successfully
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Graceful shutdown took too long")
	}
}

func TestConsumer_NewConsumer_ComponentInitialization(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	store := new(MockEventStore)
	preparer := new(MockPreparer)
	recorder := new(MockRecorder)
	log := zap.NewNop()

	cfg := &config.Config{
		Consumer: config.Consumer{
			BatchSizeMax:    100,
			BatchTimeoutSec: 5,
		},
	}

	consumer := NewConsumer(cfg, mockConsumer, store, preparer, recorder, testMetrics(), log)

	assert.NotNil(t, consumer)
	assert.NotNil(t, consumer.receiver)
	assert.NotNil(t, consumer.parser)
	assert.NotNil(t, consumer.batchWriter)
}

func TestConsumer_Start_EmptyQueueScenario(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	store := new(MockEventStore)
	preparer := new(MockPreparer)
	recorder := new(MockRecorder)
	log := zap.NewNop()

	cfg := &config.Config{
		Consumer: config.Consumer{
			BatchSizeMax:    10,
			BatchTimeoutSec: 1,
		},
	}

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/tracking-events")
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	consumer := NewConsumer(cfg, mockConsumer, store, preparer, recorder, testMetrics(), log)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := consumer.Start(ctx)

	assert.NoError(t, err)

	// AppendBatch should not be called since no messages were processed
	store.AssertNotCalled(t, "AppendBatch")
}
