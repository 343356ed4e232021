package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

func TestInsightRepository_RunLifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	run := &insight.Run{
		ID:        uuid.New(),
		Status:    insight.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO insight_runs").
		WithArgs(run.ID, "running", run.StartedAt, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewInsightRepository(db)
	require.NoError(t, repo.CreateRun(context.Background(), run))

	run.Status = insight.RunStatusCompleted
	run.CompletedAt = run.StartedAt.Add(time.Second)
	run.ReviewCount = 100
	mock.ExpectExec("UPDATE insight_runs").
		WithArgs(run.ID, "completed", run.CompletedAt, 100, 0, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.FinishRun(context.Background(), run))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightRepository_FinishRun_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE insight_runs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInsightRepository(db)
	err = repo.FinishRun(context.Background(), &insight.Run{
		ID: uuid.New(), Status: insight.RunStatusFailed, CompletedAt: time.Now(),
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeRunNotFound))
}

func TestInsightRepository_DocumentRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	doc := insight.NewDocument()
	doc.Drivers["CBE"] = []insight.Driver{
		{Theme: "User Experience", PositivePct: 75.0, AvgRating: 4.3, ReviewCount: 40, Evidence: []string{"nice"}},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO insight_documents").
		WithArgs(doc.RunID, doc.GeneratedAt, payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewInsightRepository(db)
	require.NoError(t, repo.SaveDocument(context.Background(), doc))

	mock.ExpectQuery("SELECT document FROM insight_documents WHERE run_id").
		WithArgs(doc.RunID).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(payload))

	got, err := repo.GetDocument(context.Background(), doc.RunID)
	require.NoError(t, err)
	assert.Equal(t, doc.RunID, got.RunID)
	assert.Equal(t, doc.Drivers, got.Drivers)
}

func TestInsightRepository_LatestDocument_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT document FROM insight_documents ORDER BY generated_at").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	repo := NewInsightRepository(db)
	_, err = repo.LatestDocument(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeRunNotFound))
}
