package insight

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for insight runs and documents.
type Repository interface {
	// CreateRun records a newly started run.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun updates a run's terminal status and counters.
	FinishRun(ctx context.Context, run *Run) error

	// GetRun fetches run metadata; ErrCodeRunNotFound when absent.
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)

	// ListRuns returns runs newest first, capped at limit.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// SaveDocument persists a completed insight document.
	SaveDocument(ctx context.Context, doc *Document) error

	// GetDocument fetches the document of one run; ErrCodeRunNotFound when
	// absent.
	GetDocument(ctx context.Context, runID uuid.UUID) (*Document, error)

	// LatestDocument fetches the most recently completed document;
	// ErrCodeRunNotFound when no run has completed yet.
	LatestDocument(ctx context.Context) (*Document, error)
}
