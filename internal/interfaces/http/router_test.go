package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// stubService returns canned values per method.
type stubService struct {
	run *insight.Run
	doc *insight.Document
	err error
}

func (s *stubService) Analyze(context.Context) (*insight.Run, *insight.Document, error) {
	return s.run, s.doc, s.err
}
func (s *stubService) LatestDocument(context.Context) (*insight.Document, error) {
	return s.doc, s.err
}
func (s *stubService) GetDocument(_ context.Context, runID uuid.UUID) (*insight.Document, error) {
	if s.doc != nil && s.doc.RunID == runID {
		return s.doc, nil
	}
	return nil, errors.New(errors.ErrCodeRunNotFound, "insight run not found")
}
func (s *stubService) GetRun(_ context.Context, runID uuid.UUID) (*insight.Run, error) {
	if s.run != nil && s.run.ID == runID {
		return s.run, nil
	}
	return nil, errors.New(errors.ErrCodeRunNotFound, "insight run not found")
}
func (s *stubService) ListRuns(context.Context, int) ([]*insight.Run, error) {
	if s.run == nil {
		return nil, s.err
	}
	return []*insight.Run{s.run}, nil
}

func newTestRouter(svc InsightService) *gin.Engine {
	return NewRouter(RouterConfig{
		Service: svc,
		Logger:  logging.NewNopLogger(),
		Mode:    gin.TestMode,
	})
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(&stubService{})
	rec := doRequest(t, r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLatestDocument(t *testing.T) {
	doc := insight.NewDocument()
	r := newTestRouter(&stubService{doc: doc})

	rec := doRequest(t, r, http.MethodGet, "/api/v1/insights/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var got insight.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, doc.RunID, got.RunID)
}

func TestLatestDocument_NoneYet(t *testing.T) {
	r := newTestRouter(&stubService{err: errors.New(errors.ErrCodeRunNotFound, "no runs yet")})
	rec := doRequest(t, r, http.MethodGet, "/api/v1/insights/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "INS_001")
}

func TestGetDocument_ByRunID(t *testing.T) {
	doc := insight.NewDocument()
	r := newTestRouter(&stubService{doc: doc})

	rec := doRequest(t, r, http.MethodGet, "/api/v1/insights/"+doc.RunID.String())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/v1/insights/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/v1/insights/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerRun(t *testing.T) {
	run := &insight.Run{ID: uuid.New(), Status: insight.RunStatusCompleted}
	r := newTestRouter(&stubService{run: run, doc: insight.NewDocument()})

	rec := doRequest(t, r, http.MethodPost, "/api/v1/runs")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), run.ID.String())
}

func TestTriggerRun_EmptyStore(t *testing.T) {
	r := newTestRouter(&stubService{err: errors.New(errors.ErrCodeDatasetEmpty, "no reviews")})
	rec := doRequest(t, r, http.MethodPost, "/api/v1/runs")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListRuns_BadLimit(t *testing.T) {
	r := newTestRouter(&stubService{run: &insight.Run{ID: uuid.New()}})
	rec := doRequest(t, r, http.MethodGet, "/api/v1/runs?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/v1/runs?limit=5")
	assert.Equal(t, http.StatusOK, rec.Code)
}
