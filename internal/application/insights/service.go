package insights

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/domain/review"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// latestDocumentKey is the cache key for the most recent insight document.
const latestDocumentKey = "insight:latest"

// Cache is the minimal caching contract the service needs. The Redis cache
// satisfies it; tests use an in-memory fake.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// RunEventPublisher announces terminal run states to downstream consumers.
type RunEventPublisher interface {
	PublishRunCompleted(ctx context.Context, run *insight.Run) error
}

// ServiceConfig carries the service's collaborators. Reviews, Insights,
// Engine, and Logger are required; Cache and Publisher are optional.
type ServiceConfig struct {
	Engine    *Engine
	Reviews   review.Repository
	Insights  insight.Repository
	Cache     Cache
	Publisher RunEventPublisher
	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
}

// Service orchestrates analysis runs: load reviews, run the engine, persist
// run metadata and the document, refresh the cache, and announce completion.
type Service struct {
	engine    *Engine
	reviews   review.Repository
	insights  insight.Repository
	cache     Cache
	publisher RunEventPublisher
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// NewService validates the configuration and builds a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Engine == nil {
		return nil, errors.New(errors.ErrCodeConfigError, "service requires an engine")
	}
	if cfg.Reviews == nil || cfg.Insights == nil {
		return nil, errors.New(errors.ErrCodeConfigError, "service requires review and insight repositories")
	}
	if cfg.Logger == nil {
		return nil, errors.New(errors.ErrCodeConfigError, "service requires a logger")
	}
	return &Service{
		engine:    cfg.Engine,
		reviews:   cfg.Reviews,
		insights:  cfg.Insights,
		cache:     cfg.Cache,
		publisher: cfg.Publisher,
		logger:    cfg.Logger.Named("insights.service"),
		metrics:   cfg.Metrics,
	}, nil
}

// Analyze executes one full analysis run over every stored review. The run is
// recorded before the engine starts so that failures leave an auditable
// failed run rather than nothing.
func (s *Service) Analyze(ctx context.Context) (*insight.Run, *insight.Document, error) {
	run := &insight.Run{
		ID:        uuid.New(),
		Status:    insight.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.insights.CreateRun(ctx, run); err != nil {
		return nil, nil, err
	}

	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return run, nil, s.fail(ctx, run, err)
	}

	doc, skipped, err := s.engine.Run(ctx, reviews)
	run.SkippedCount = skipped
	if err != nil {
		return run, nil, s.fail(ctx, run, err)
	}

	// The run owns the document's identity.
	doc.RunID = run.ID
	run.ReviewCount = len(reviews) - skipped

	if err := s.insights.SaveDocument(ctx, doc); err != nil {
		return run, nil, s.fail(ctx, run, err)
	}

	run.Status = insight.RunStatusCompleted
	run.CompletedAt = time.Now().UTC()
	if err := s.insights.FinishRun(ctx, run); err != nil {
		return run, nil, err
	}
	s.observeRun("completed")

	if s.cache != nil {
		if err := s.cache.Set(ctx, latestDocumentKey, doc); err != nil {
			s.logger.Warn("failed to refresh latest-document cache", logging.Err(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishRunCompleted(ctx, run); err != nil {
			s.logger.Warn("failed to publish run event", logging.Err(err))
		}
	}

	s.logger.Info("analysis run persisted",
		logging.String("run_id", run.ID.String()),
		logging.Int("reviews", run.ReviewCount),
		logging.Int("skipped", run.SkippedCount))
	return run, doc, nil
}

// fail records the terminal failed state; the original error is returned, and
// bookkeeping failures are only logged.
func (s *Service) fail(ctx context.Context, run *insight.Run, cause error) error {
	run.Status = insight.RunStatusFailed
	run.CompletedAt = time.Now().UTC()
	run.Error = cause.Error()
	if err := s.insights.FinishRun(ctx, run); err != nil {
		s.logger.Error("failed to record failed run", logging.Err(err))
	}
	s.observeRun("failed")
	return cause
}

// LatestDocument serves the most recent document, preferring the cache.
func (s *Service) LatestDocument(ctx context.Context) (*insight.Document, error) {
	if s.cache != nil {
		var doc insight.Document
		if err := s.cache.Get(ctx, latestDocumentKey, &doc); err == nil {
			return &doc, nil
		} else if !errors.IsNotFound(err) {
			s.logger.Warn("latest-document cache read failed", logging.Err(err))
		}
	}

	doc, err := s.insights.LatestDocument(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, latestDocumentKey, doc); err != nil {
			s.logger.Warn("failed to backfill latest-document cache", logging.Err(err))
		}
	}
	return doc, nil
}

// GetDocument fetches the document of one run.
func (s *Service) GetDocument(ctx context.Context, runID uuid.UUID) (*insight.Document, error) {
	return s.insights.GetDocument(ctx, runID)
}

// GetRun fetches run metadata.
func (s *Service) GetRun(ctx context.Context, runID uuid.UUID) (*insight.Run, error) {
	return s.insights.GetRun(ctx, runID)
}

// ListRuns returns recent runs, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]*insight.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.insights.ListRuns(ctx, limit)
}

func (s *Service) observeRun(status string) {
	if s.metrics != nil {
		s.metrics.AnalysisRuns.WithLabelValues(status).Inc()
	}
}
