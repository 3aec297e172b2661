package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/audit"
	"github.com/amirbekazimov/ai-detector-backend/internal/config"
	"github.com/amirbekazimov/ai-detector-backend/internal/consumer"
	"github.com/amirbekazimov/ai-detector-backend/internal/logger"
	"github.com/amirbekazimov/ai-detector-backend/internal/metrics"
	"github.com/amirbekazimov/ai-detector-backend/internal/queue/sqs"
	"github.com/amirbekazimov/ai-detector-backend/internal/repository/clickhouse"
	"github.com/amirbekazimov/ai-detector-backend/internal/sequence"
	"github.com/amirbekazimov/ai-detector-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		if err := log.Sync(); err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment))

	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", zap.Error(err))
	}

	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	store := clickhouse.NewRepository(chClient, sequence.NewRedisAllocator(redisClient), log)

	if err := store.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	m := metrics.New(prometheus.NewRegistry())
	auditor := audit.NewZapRecorder(log)
	intakeService := service.NewIntakeService(store, auditor, m, cfg.Limits, log)

	c := consumer.NewConsumer(cfg, sqsClient, store, intakeService, auditor, m, log)

	// Health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := store.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Consumer starting")

	go func() {
		if err := c.Start(consumerCtx); err != nil {
			log.Fatal("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down consumer gracefully")
	cancel()
}
