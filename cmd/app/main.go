package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/bootstrap"
	"github.com/Edwardko2004/CS391-Project/internal/cache"
	"github.com/Edwardko2004/CS391-Project/internal/kafka"
	"github.com/Edwardko2004/CS391-Project/internal/logger"
	"github.com/Edwardko2004/CS391-Project/internal/repository"
	"github.com/Edwardko2004/CS391-Project/internal/service/events"
	"github.com/Edwardko2004/CS391-Project/internal/service/ledger"
	"github.com/Edwardko2004/CS391-Project/internal/telemetry"
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

	log := logger.New(cfg.Log, "sparkbytes-api")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	metrics, err := telemetry.NewLedgerMetrics()
	if err != nil {
		log.Fatal("create metrics", zap.Error(err))
	}

	eventRepo := repository.NewEventRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	ledgerService := ledger.NewLedgerService(
		eventRepo,
		reservationRepo,
		profileRepo,
		cfg.Reservation,
		ledger.WithProducer(producer, cfg.Kafka.ReservationsTopic),
		ledger.WithInvalidator(redisCache),
		ledger.WithMetrics(metrics),
		ledger.WithLogger(log),
	)
	eventService := events.NewEventService(eventRepo, profileRepo, ledgerService,
		events.WithCache(redisCache),
		events.WithLogger(log),
	)

	err = bootstrap.Run(ctx, cfg, log, bootstrap.Services{
		Events: eventService,
		Ledger: ledgerService,
		Health: map[string]bootstrap.Pinger{"postgres": pool, "redis": redisCache},
	})
	if err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
