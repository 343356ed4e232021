// Command worker consumes labeled reviews from Kafka and ingests them into
// the review store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CX-Insight/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/prometheus"
)

func main() {
	if err := run(); err != nil && err != context.Canceled {
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

	collector := prometheus.NewCollector()
	metrics := prometheus.NewAppMetrics(collector)

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	consumer := kafka.NewConsumer(cfg.Kafka, repositories.NewReviewRepository(db), logger, metrics)
	defer consumer.Close()

	logger.Info("review ingestion worker started",
		logging.Strings("brokers", cfg.Kafka.Brokers),
		logging.String("group", cfg.Kafka.GroupID))
	return consumer.Run(ctx)
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CXI_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
