package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/audit"
	"github.com/Edwardko2004/CS391-Project/internal/cache"
	"github.com/Edwardko2004/CS391-Project/internal/kafka"
	"github.com/Edwardko2004/CS391-Project/internal/logger"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log := logger.New(cfg.Log, "sparkbytes-worker")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder, err := audit.NewRecorder(cfg.Worker.AuditLogPath)
	if err != nil {
		log.Fatal("open audit log", zap.Error(err))
	}
	defer recorder.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache)
	defer redisCache.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReservationsTopic)
	defer consumer.Close()

	log.Info("consuming reservation events",
		zap.String("topic", cfg.Kafka.ReservationsTopic),
		zap.String("group_id", cfg.Kafka.GroupID))

	if err := consumer.Consume(ctx, audit.NewMessageHandler(recorder, redisCache, log)); err != nil {
		log.Error("consumer stopped", zap.Error(err))
		return
	}
	log.Info("worker stopped")
}
