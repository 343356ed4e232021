package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := NewCollector()
	a := c.RegisterCounter("test_total", "help", "label")
	b := c.RegisterCounter("test_total", "help", "label")
	assert.Same(t, a, b)
}

func TestAppMetrics_ObserveRun(t *testing.T) {
	c := NewCollector()
	m := NewAppMetrics(c)

	m.ObserveRun("Bank of Abyssinia", 3, 2, 5)

	assert.InDelta(t, 3, testutil.ToFloat64(m.DriversFound.WithLabelValues("Bank of Abyssinia")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PainPointsFound.WithLabelValues("Bank of Abyssinia")), 1e-9)
	assert.InDelta(t, 5, testutil.ToFloat64(m.Recommendations.WithLabelValues("Bank of Abyssinia")), 1e-9)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	m := NewAppMetrics(c)
	m.ReviewsIngested.WithLabelValues("CBE", "csv").Add(10)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "cxinsight_reviews_ingested_total")
}
