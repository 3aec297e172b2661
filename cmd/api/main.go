package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amirbekazimov/ai-detector-backend/internal/audit"
	"github.com/amirbekazimov/ai-detector-backend/internal/auth"
	"github.com/amirbekazimov/ai-detector-backend/internal/config"
	"github.com/amirbekazimov/ai-detector-backend/internal/handler"
	"github.com/amirbekazimov/ai-detector-backend/internal/logger"
	"github.com/amirbekazimov/ai-detector-backend/internal/metrics"
	"github.com/amirbekazimov/ai-detector-backend/internal/repository/clickhouse"
	"github.com/amirbekazimov/ai-detector-backend/internal/sequence"
	"github.com/amirbekazimov/ai-detector-backend/internal/service"
	"github.com/amirbekazimov/ai-detector-backend/internal/sites"
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

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Redis backs the id sequences, the site directory, and the token table
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", zap.Error(err))
	}

	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	store := clickhouse.NewRepository(clickhouseClient, sequence.NewRedisAllocator(redisClient), log)

	if err := store.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	intakeService := service.NewIntakeService(store, audit.NewZapRecorder(log), m, cfg.Limits, log)
	statsService := service.NewStatsService(store, sites.NewRedisDirectory(redisClient), log)
	verifier := auth.NewRedisVerifier(redisClient)

	h := handler.NewHandler(intakeService, statsService, verifier, registry, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
