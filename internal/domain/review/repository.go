package review

import "context"

// Repository is the persistence contract for labeled reviews.
type Repository interface {
	// Save inserts or updates a single review keyed by its ID.
	Save(ctx context.Context, r *Review) error

	// SaveBatch upserts a batch of reviews. Partial failure aborts the
	// whole batch.
	SaveBatch(ctx context.Context, reviews []*Review) error

	// GetByID fetches one review; returns ErrCodeReviewNotFound when absent.
	GetByID(ctx context.Context, id string) (*Review, error)

	// ListByEntity returns all reviews for one entity ordered by review ID.
	ListByEntity(ctx context.Context, entity string) ([]*Review, error)

	// ListAll returns every stored review ordered by entity, then review ID.
	ListAll(ctx context.Context) ([]*Review, error)

	// CountByEntity returns the review count per entity.
	CountByEntity(ctx context.Context) (map[string]int, error)

	// UpdateThemes persists the tagged theme string for one review.
	UpdateThemes(ctx context.Context, id string, themes []string) error
}
