package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/turtacn/CX-Insight/internal/domain/review"
	"github.com/turtacn/CX-Insight/pkg/errors"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

// ReviewRepository is the PostgreSQL implementation of review.Repository.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository wires a ReviewRepository over the given pool.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

var _ review.Repository = (*ReviewRepository)(nil)

const reviewColumns = `review_id, entity, rating, review_text, sentiment, sentiment_score, themes, ingested_at`

const upsertReviewSQL = `
INSERT INTO reviews (review_id, entity, rating, review_text, sentiment, sentiment_score, themes, ingested_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (review_id) DO UPDATE SET
	entity = EXCLUDED.entity,
	rating = EXCLUDED.rating,
	review_text = EXCLUDED.review_text,
	sentiment = EXCLUDED.sentiment,
	sentiment_score = EXCLUDED.sentiment_score,
	themes = EXCLUDED.themes`

// Save upserts one review keyed by its upstream ID.
func (r *ReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	return r.save(ctx, r.db, rev)
}

func (r *ReviewRepository) save(ctx context.Context, q queryExecutor, rev *review.Review) error {
	ingested := rev.IngestedAt
	if ingested.IsZero() {
		ingested = time.Now().UTC()
	}
	_, err := q.ExecContext(ctx, upsertReviewSQL,
		rev.ID, rev.Entity, rev.Rating, rev.Text,
		string(rev.Sentiment), rev.SentimentScore, rev.ThemeString(), ingested)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save review").
			WithDetail("review_id=" + rev.ID)
	}
	return nil
}

// SaveBatch upserts a batch inside a single transaction; any failure rolls
// the whole batch back.
func (r *ReviewRepository) SaveBatch(ctx context.Context, reviews []*review.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin batch transaction")
	}
	for _, rev := range reviews {
		if err := r.save(ctx, tx, rev); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit review batch")
	}
	return nil
}

// GetByID fetches one review by its upstream ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*review.Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE review_id = $1`, id)
	rev, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeReviewNotFound, "review not found").
			WithDetail("review_id=" + id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get review")
	}
	return rev, nil
}

// ListByEntity returns the entity's reviews in review-ID order, the stable
// ordering the analysis pipeline depends on for evidence selection.
func (r *ReviewRepository) ListByEntity(ctx context.Context, entity string) ([]*review.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE entity = $1 ORDER BY review_id`, entity)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list reviews by entity")
	}
	return collectReviews(rows)
}

// ListAll returns every stored review ordered by entity, then review ID.
func (r *ReviewRepository) ListAll(ctx context.Context) ([]*review.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews ORDER BY entity, review_id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list reviews")
	}
	return collectReviews(rows)
}

// CountByEntity returns per-entity review counts.
func (r *ReviewRepository) CountByEntity(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity, COUNT(*) FROM reviews GROUP BY entity`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count reviews")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var entity string
		var count int
		if err := rows.Scan(&entity, &count); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan review count")
		}
		counts[entity] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate review counts")
	}
	return counts, nil
}

// UpdateThemes persists the tagged theme string for one review.
func (r *ReviewRepository) UpdateThemes(ctx context.Context, id string, themes []string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET themes = $2 WHERE review_id = $1`,
		id, common.JoinThemes(themes))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update review themes")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeReviewNotFound, "review not found").
			WithDetail("review_id=" + id)
	}
	return nil
}

func scanReview(s scanner) (*review.Review, error) {
	var rev review.Review
	var sentiment, themes string
	if err := s.Scan(&rev.ID, &rev.Entity, &rev.Rating, &rev.Text,
		&sentiment, &rev.SentimentScore, &themes, &rev.IngestedAt); err != nil {
		return nil, err
	}
	rev.Sentiment = common.Sentiment(sentiment)
	rev.Themes = common.SplitThemes(themes)
	return &rev, nil
}

func collectReviews(rows *sql.Rows) ([]*review.Review, error) {
	defer rows.Close()
	var out []*review.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan review row")
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate review rows")
	}
	return out, nil
}
