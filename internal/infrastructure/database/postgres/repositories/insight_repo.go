package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// InsightRepository is the PostgreSQL implementation of insight.Repository.
// Documents are stored as JSONB; run metadata lives in relational columns so
// it can be listed and filtered cheaply.
type InsightRepository struct {
	db *sql.DB
}

// NewInsightRepository wires an InsightRepository over the given pool.
func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

var _ insight.Repository = (*InsightRepository)(nil)

// CreateRun records a newly started run.
func (r *InsightRepository) CreateRun(ctx context.Context, run *insight.Run) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO insight_runs (id, status, started_at, review_count, skipped_count)
		 VALUES ($1, $2, $3, $4, $5)`,
		run.ID, string(run.Status), run.StartedAt, run.ReviewCount, run.SkippedCount)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create insight run").
			WithDetail("run_id=" + run.ID.String())
	}
	return nil
}

// FinishRun updates a run's terminal status and counters.
func (r *InsightRepository) FinishRun(ctx context.Context, run *insight.Run) error {
	completed := run.CompletedAt
	if completed.IsZero() {
		completed = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE insight_runs
		 SET status = $2, completed_at = $3, review_count = $4, skipped_count = $5, error_message = $6
		 WHERE id = $1`,
		run.ID, string(run.Status), completed, run.ReviewCount, run.SkippedCount, run.Error)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to finish insight run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeRunNotFound, "insight run not found").
			WithDetail("run_id=" + run.ID.String())
	}
	return nil
}

// GetRun fetches run metadata.
func (r *InsightRepository) GetRun(ctx context.Context, id uuid.UUID) (*insight.Run, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, status, started_at, completed_at, review_count, skipped_count, error_message
		 FROM insight_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeRunNotFound, "insight run not found").
			WithDetail("run_id=" + id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get insight run")
	}
	return run, nil
}

// ListRuns returns runs newest first, capped at limit.
func (r *InsightRepository) ListRuns(ctx context.Context, limit int) ([]*insight.Run, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, status, started_at, completed_at, review_count, skipped_count, error_message
		 FROM insight_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list insight runs")
	}
	defer rows.Close()

	var runs []*insight.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan insight run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate insight runs")
	}
	return runs, nil
}

// SaveDocument persists a completed insight document as JSONB.
func (r *InsightRepository) SaveDocument(ctx context.Context, doc *insight.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDocumentEncoding, "failed to encode insight document")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO insight_documents (run_id, generated_at, document)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id) DO UPDATE SET generated_at = EXCLUDED.generated_at, document = EXCLUDED.document`,
		doc.RunID, doc.GeneratedAt, payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save insight document").
			WithDetail("run_id=" + doc.RunID.String())
	}
	return nil
}

// GetDocument fetches the document of one run.
func (r *InsightRepository) GetDocument(ctx context.Context, runID uuid.UUID) (*insight.Document, error) {
	return r.queryDocument(ctx,
		`SELECT document FROM insight_documents WHERE run_id = $1`, runID)
}

// LatestDocument fetches the most recently generated document.
func (r *InsightRepository) LatestDocument(ctx context.Context) (*insight.Document, error) {
	return r.queryDocument(ctx,
		`SELECT document FROM insight_documents ORDER BY generated_at DESC LIMIT 1`)
}

func (r *InsightRepository) queryDocument(ctx context.Context, query string, args ...any) (*insight.Document, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeRunNotFound, "insight document not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get insight document")
	}
	var doc insight.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentEncoding, "failed to decode insight document")
	}
	return &doc, nil
}

func scanRun(s scanner) (*insight.Run, error) {
	var run insight.Run
	var status string
	var completed sql.NullTime
	var errMsg sql.NullString
	if err := s.Scan(&run.ID, &status, &run.StartedAt, &completed,
		&run.ReviewCount, &run.SkippedCount, &errMsg); err != nil {
		return nil, err
	}
	run.Status = insight.RunStatus(status)
	if completed.Valid {
		run.CompletedAt = completed.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return &run, nil
}
