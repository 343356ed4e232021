package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/review"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// Consumer ingests labeled reviews from the reviews topic into the store.
// Malformed messages are counted and skipped, never retried; the stream must
// keep moving.
type Consumer struct {
	reader  *kafka.Reader
	repo    review.Repository
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewConsumer builds a Consumer in the configured consumer group. metrics may
// be nil.
func NewConsumer(cfg config.KafkaConfig, repo review.Repository, logger logging.Logger, metrics *prometheus.AppMetrics) *Consumer {
	startOffset := kafka.FirstOffset
	if cfg.AutoOffsetReset == "latest" {
		startOffset = kafka.LastOffset
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			GroupID:     cfg.GroupID,
			Topic:       TopicReviews,
			StartOffset: startOffset,
			MinBytes:    1,
			MaxBytes:    10 << 20,
		}),
		repo:    repo,
		logger:  logger.Named("kafka.consumer"),
		metrics: metrics,
	}
}

// Run consumes until ctx is cancelled. Offsets are committed only after a
// successful store write, so a crash re-delivers rather than drops; the
// review upsert keyed by review ID makes re-delivery harmless.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, errors.ErrCodeMessageQueueError, "failed to fetch message")
		}

		if err := c.handle(ctx, msg.Value); err != nil {
			if errors.IsCode(err, errors.ErrCodeReviewMalformed) ||
				errors.IsCode(err, errors.ErrCodeSerialization) {
				c.logger.Warn("skipping malformed review message",
					logging.Int64("offset", msg.Offset),
					logging.Err(err))
				c.skip("malformed")
			} else {
				// Infrastructure failure: leave the offset uncommitted and
				// surface the error.
				return err
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, errors.ErrCodeMessageQueueError, "failed to commit offset")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, payload []byte) error {
	var rev review.Review
	if err := json.Unmarshal(payload, &rev); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode review message")
	}
	if err := rev.Validate(); err != nil {
		return err
	}
	if err := c.repo.Save(ctx, &rev); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.ReviewsIngested.WithLabelValues(rev.Entity, "kafka").Inc()
	}
	return nil
}

func (c *Consumer) skip(reason string) {
	if c.metrics != nil {
		c.metrics.ReviewsSkipped.WithLabelValues(reason).Inc()
	}
}

// Close releases the reader's group membership.
func (c *Consumer) Close() error { return c.reader.Close() }
