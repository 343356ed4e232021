package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// RunEvent is the message published when an analysis run reaches a terminal
// state.
type RunEvent struct {
	RunID        string    `json:"run_id"`
	Status       string    `json:"status"`
	ReviewCount  int       `json:"review_count"`
	SkippedCount int       `json:"skipped_count"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Producer publishes run events.
type Producer struct {
	writer *kafka.Writer
	logger logging.Logger
}

// NewProducer builds a Producer for the run-events topic.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        TopicRunEvents,
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    cfg.BatchSize,
			BatchTimeout: cfg.BatchTimeout,
			MaxAttempts:  cfg.MaxRetries,
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger.Named("kafka.producer"),
	}
}

// PublishRunCompleted announces a finished run. The run ID is the message key
// so that per-run ordering is preserved.
func (p *Producer) PublishRunCompleted(ctx context.Context, run *insight.Run) error {
	event := RunEvent{
		RunID:        run.ID.String(),
		Status:       string(run.Status),
		ReviewCount:  run.ReviewCount,
		SkippedCount: run.SkippedCount,
		CompletedAt:  run.CompletedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode run event")
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RunID),
		Value: payload,
	}); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessageQueueError, "failed to publish run event").
			WithDetail("run_id=" + event.RunID)
	}
	p.logger.Info("run event published",
		logging.String("run_id", event.RunID),
		logging.String("status", event.Status))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error { return p.writer.Close() }
