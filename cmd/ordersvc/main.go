package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/testworkflow/ordersvc/internal/cache"
	"github.com/testworkflow/ordersvc/internal/config"
	"github.com/testworkflow/ordersvc/internal/httpapi"
	"github.com/testworkflow/ordersvc/internal/messaging/kafka"
	"github.com/testworkflow/ordersvc/internal/messaging/noop"
	"github.com/testworkflow/ordersvc/internal/repository"
	"github.com/testworkflow/ordersvc/internal/repository/memory"
	"github.com/testworkflow/ordersvc/internal/repository/postgres"
	"github.com/testworkflow/ordersvc/internal/service"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(cfg, logger); err != nil {
		logger.Error("order service exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo repository.OrderRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		pgRepo := postgres.NewOrderRepository(pool)
		if err := pgRepo.Migrate(ctx); err != nil {
			return err
		}
		repo = pgRepo
		logger.Info("using postgres order store")
	} else {
		repo = memory.NewOrderRepository()
		logger.Warn("DATABASE_URL not set, using in-memory order store")
	}

	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("failed to close event publisher", "error", err)
			}
		}()
		publisher = kafkaPublisher
		logger.Info("publishing order events to kafka", "topic", cfg.KafkaTopic)
	} else {
		publisher = noop.Publisher{}
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	var orderCache service.OrderCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		orderCache = cache.NewOrderCache(redisClient, cfg.OrderCacheTTL, logger)
		logger.Info("order read cache enabled", "ttl", cfg.OrderCacheTTL)
	}

	orders := service.NewOrderService(repo, publisher, orderCache, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: httpapi.NewRouter(orders, logger),
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			errCh <- err
			return
		}
		logger.Info("grpc health server listening", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	// Both exits pass through the same shutdown: the publisher's deferred
	// Close must not run while handlers are still accepting requests.
	var serveErr error
	select {
	case serveErr = <-errCh:
		logger.Error("server failed", "error", serveErr)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	return serveErr
}
