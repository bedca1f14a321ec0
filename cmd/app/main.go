package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahanw/travelbooking/config"
	"github.com/sahanw/travelbooking/internal/bootstrap"
	"github.com/sahanw/travelbooking/internal/cache"
	"github.com/sahanw/travelbooking/internal/kafka"
	"github.com/sahanw/travelbooking/internal/repository"
	"github.com/sahanw/travelbooking/internal/service/booking"
	"github.com/sahanw/travelbooking/internal/service/resources"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.InitSchema(ctx, pool); err != nil {
		logger.Error("init schema", "error", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	resourceRepo := repository.NewResourceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	resourceService := resources.NewResourceService(resourceRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(logger),
	)

	if err := bootstrap.Run(ctx, cfg, logger, resourceService, bookingService); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
