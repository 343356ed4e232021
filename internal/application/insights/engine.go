package insights

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/domain/review"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// Engine runs the full analysis pipeline over a batch of labeled reviews and
// produces an insight document. Per-entity work (tagging, aggregation,
// classification, comparison) is independent and fans out one goroutine per
// entity; recommendation synthesis needs every entity's results, so a single
// barrier separates the two phases.
type Engine struct {
	cfg     config.AnalyticsConfig
	tagger  *Tagger
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewEngine builds an Engine. metrics may be nil; logger must not be.
func NewEngine(cfg config.AnalyticsConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*Engine, error) {
	tagger, err := NewTagger(cfg.ThemeKeywords)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		tagger:  tagger,
		logger:  logger.Named("insights"),
		metrics: metrics,
	}, nil
}

// entityResult holds one entity's phase-one output. Each slot is owned
// exclusively by the goroutine computing that entity, so no locking is
// needed.
type entityResult struct {
	drivers    []insight.Driver
	painPoints []insight.PainPoint
	comparison insight.Comparison
}

// Run executes the pipeline. It returns the completed document and the count
// of malformed reviews that were skipped. An empty (or entirely malformed)
// input set is fatal: no partial document is produced.
func (e *Engine) Run(ctx context.Context, reviews []*review.Review) (*insight.Document, int, error) {
	if len(reviews) == 0 {
		return nil, 0, errors.New(errors.ErrCodeDatasetEmpty, "input record set is empty")
	}

	valid, skipped := e.prepare(reviews)
	if len(valid) == 0 {
		return nil, skipped, errors.New(errors.ErrCodeDatasetEmpty,
			"no valid reviews remain after validation")
	}

	// Group by entity, preserving first-appearance order. Peer iteration in
	// the synthesizer follows this order.
	byEntity := make(map[string][]*review.Review)
	var entityOrder []string
	for _, r := range valid {
		if _, seen := byEntity[r.Entity]; !seen {
			entityOrder = append(entityOrder, r.Entity)
		}
		byEntity[r.Entity] = append(byEntity[r.Entity], r)
	}

	aggregator := NewAggregator(e.cfg.EvidenceSamples)
	classifier := NewClassifier(e.cfg)
	comparator := NewComparator(e.cfg.TopThemes)

	results := make([]entityResult, len(entityOrder))
	g, ctx := errgroup.WithContext(ctx)
	for i, entity := range entityOrder {
		i, entity := i, entity
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			stats := aggregator.Aggregate(entity, byEntity[entity])
			drivers, painPoints := classifier.Classify(stats)
			results[i] = entityResult{
				drivers:    drivers,
				painPoints: painPoints,
				comparison: comparator.Compare(byEntity[entity]),
			}
			e.observeStage("entity", start)
			e.logger.Debug("entity analyzed",
				logging.String("entity", entity),
				logging.Int("reviews", len(byEntity[entity])),
				logging.Int("drivers", len(drivers)),
				logging.Int("pain_points", len(painPoints)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, skipped, errors.Wrap(err, errors.ErrCodeAnalysisFailed, "per-entity analysis failed")
	}

	doc := insight.NewDocument()
	drivers := make(map[string][]insight.Driver, len(entityOrder))
	painPoints := make(map[string][]insight.PainPoint, len(entityOrder))
	for i, entity := range entityOrder {
		drivers[entity] = results[i].drivers
		painPoints[entity] = results[i].painPoints
		doc.Comparison[entity] = results[i].comparison
	}
	doc.Drivers = drivers
	doc.PainPoints = painPoints

	start := time.Now()
	doc.Recommendations = NewSynthesizer(e.cfg).Synthesize(entityOrder, drivers, painPoints, doc.Comparison)
	e.observeStage("synthesize", start)

	if e.metrics != nil {
		for _, entity := range entityOrder {
			e.metrics.ObserveRun(entity,
				len(drivers[entity]), len(painPoints[entity]), len(doc.Recommendations[entity]))
		}
	}
	e.logger.Info("analysis run completed",
		logging.String("run_id", doc.RunID.String()),
		logging.Int("entities", len(entityOrder)),
		logging.Int("reviews", len(valid)),
		logging.Int("skipped", skipped))
	return doc, skipped, nil
}

// prepare validates each review and tags those without a precomputed theme
// set. Malformed records are skipped silently apart from a logged count, per
// the ingestion contract.
func (e *Engine) prepare(reviews []*review.Review) ([]*review.Review, int) {
	valid := make([]*review.Review, 0, len(reviews))
	skipped := 0
	for _, r := range reviews {
		if err := r.Validate(); err != nil {
			skipped++
			if e.metrics != nil {
				e.metrics.ReviewsSkipped.WithLabelValues("malformed").Inc()
			}
			continue
		}
		if len(r.Themes) == 0 {
			r.Themes = e.tagger.Assign(r.Tokens())
		}
		valid = append(valid, r)
	}
	if skipped > 0 {
		e.logger.Warn("skipped malformed reviews", logging.Int("count", skipped))
	}
	return valid, skipped
}

func (e *Engine) observeStage(stage string, start time.Time) {
	if e.metrics != nil {
		e.metrics.AnalysisDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
