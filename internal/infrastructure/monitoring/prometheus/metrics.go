// Package prometheus wires the platform's operational metrics. All metric
// construction goes through the Collector so names and labels stay uniform.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cxinsight"

// Collector owns a prometheus registry and a cache of constructed metric
// vectors keyed by name. Construction is idempotent: registering the same
// name twice returns the first instance.
type Collector struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewCollector creates a Collector with a fresh registry that includes the
// standard Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return &Collector{
		registry:   reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RegisterCounter creates (or returns the existing) counter vector.
func (c *Collector) RegisterCounter(name, help string, labels ...string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok := c.counters[name]; ok {
		return cv
	}
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	c.registry.MustRegister(cv)
	c.counters[name] = cv
	return cv
}

// RegisterHistogram creates (or returns the existing) histogram vector.
func (c *Collector) RegisterHistogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hv, ok := c.histograms[name]; ok {
		return hv
	}
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	hv := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	c.registry.MustRegister(hv)
	c.histograms[name] = hv
	return hv
}

// RegisterGauge creates (or returns the existing) gauge vector.
func (c *Collector) RegisterGauge(name, help string, labels ...string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gv, ok := c.gauges[name]; ok {
		return gv
	}
	gv := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	c.registry.MustRegister(gv)
	c.gauges[name] = gv
	return gv
}

// AppMetrics bundles the platform's standard metric set.
type AppMetrics struct {
	ReviewsIngested  *prometheus.CounterVec   // labels: entity, source
	ReviewsSkipped   *prometheus.CounterVec   // labels: reason
	AnalysisRuns     *prometheus.CounterVec   // labels: status
	AnalysisDuration *prometheus.HistogramVec // labels: stage
	DriversFound     *prometheus.GaugeVec     // labels: entity
	PainPointsFound  *prometheus.GaugeVec     // labels: entity
	Recommendations  *prometheus.GaugeVec     // labels: entity
	CacheOps         *prometheus.CounterVec   // labels: op, outcome
	HTTPRequests     *prometheus.CounterVec   // labels: method, path, status
	HTTPDuration     *prometheus.HistogramVec // labels: method, path
}

// NewAppMetrics registers and returns the standard metric set.
func NewAppMetrics(c *Collector) *AppMetrics {
	return &AppMetrics{
		ReviewsIngested: c.RegisterCounter("reviews_ingested_total",
			"Reviews accepted into the store.", "entity", "source"),
		ReviewsSkipped: c.RegisterCounter("reviews_skipped_total",
			"Reviews rejected during ingestion.", "reason"),
		AnalysisRuns: c.RegisterCounter("analysis_runs_total",
			"Insight analysis runs by terminal status.", "status"),
		AnalysisDuration: c.RegisterHistogram("analysis_stage_duration_seconds",
			"Duration of each analysis stage.",
			[]float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60}, "stage"),
		DriversFound: c.RegisterGauge("drivers_found",
			"Drivers identified in the latest run.", "entity"),
		PainPointsFound: c.RegisterGauge("pain_points_found",
			"Pain points identified in the latest run.", "entity"),
		Recommendations: c.RegisterGauge("recommendations_generated",
			"Recommendations generated in the latest run.", "entity"),
		CacheOps: c.RegisterCounter("cache_operations_total",
			"Cache operations by outcome.", "op", "outcome"),
		HTTPRequests: c.RegisterCounter("http_requests_total",
			"HTTP requests served.", "method", "path", "status"),
		HTTPDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency.", nil, "method", "path"),
	}
}

// ObserveRun records the headline numbers of a completed run for one entity.
func (m *AppMetrics) ObserveRun(entity string, drivers, painPoints, recommendations int) {
	m.DriversFound.WithLabelValues(entity).Set(float64(drivers))
	m.PainPointsFound.WithLabelValues(entity).Set(float64(painPoints))
	m.Recommendations.WithLabelValues(entity).Set(float64(recommendations))
}

// String implements fmt.Stringer for debug logging of the collector.
func (c *Collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("prometheus.Collector{counters=%d histograms=%d gauges=%d}",
		len(c.counters), len(c.histograms), len(c.gauges))
}
