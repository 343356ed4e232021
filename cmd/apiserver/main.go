// Command apiserver serves the insight API: run management, insight
// documents, health, and metrics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/CX-Insight/internal/application/insights"
	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/redis"
	"github.com/turtacn/CX-Insight/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/turtacn/CX-Insight/internal/interfaces/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if path := os.Getenv("CXI_CONFIG"); path != "" {
		err := config.Watch(path, func(next *config.Config) {
			logger.Info("configuration file changed",
				logging.String("path", path),
				logging.String("log_level", next.Log.Level))
		}, ctx.Done())
		if err != nil {
			logger.Warn("config watch unavailable", logging.Err(err))
		}
	}

	collector := prometheus.NewCollector()
	metrics := prometheus.NewAppMetrics(collector)

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, cfg.Redis, metrics)

	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	engine, err := insights.NewEngine(cfg.Analytics, logger, metrics)
	if err != nil {
		return err
	}
	service, err := insights.NewService(insights.ServiceConfig{
		Engine:    engine,
		Reviews:   repositories.NewReviewRepository(db),
		Insights:  repositories.NewInsightRepository(db),
		Cache:     cache,
		Publisher: producer,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		return err
	}

	router := httpiface.NewRouter(httpiface.RouterConfig{
		Service:   service,
		Logger:    logger,
		Metrics:   metrics,
		Collector: collector,
		Mode:      cfg.Server.Mode,
	})
	server := httpiface.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CXI_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
