// Package http exposes the read/trigger API over gin: health, metrics, run
// management, and insight documents.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CX-Insight/pkg/errors"
)

// InsightService is the application contract the API serves.
type InsightService interface {
	Analyze(ctx context.Context) (*insight.Run, *insight.Document, error)
	LatestDocument(ctx context.Context) (*insight.Document, error)
	GetDocument(ctx context.Context, runID uuid.UUID) (*insight.Document, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*insight.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*insight.Run, error)
}

// RouterConfig carries the router's collaborators. Collector may be nil, in
// which case no /metrics endpoint is mounted.
type RouterConfig struct {
	Service   InsightService
	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector *prometheus.Collector
	Mode      string
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(cfg.Logger, cfg.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	h := &handlers{service: cfg.Service}
	v1 := r.Group("/api/v1")
	{
		v1.POST("/runs", h.triggerRun)
		v1.GET("/runs", h.listRuns)
		v1.GET("/runs/:id", h.getRun)
		v1.GET("/insights/latest", h.latestDocument)
		v1.GET("/insights/:id", h.getDocument)
	}
	return r
}

// requestLogger logs each request and records HTTP metrics.
func requestLogger(logger logging.Logger, metrics *prometheus.AppMetrics) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		if metrics != nil {
			metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, http.StatusText(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())
		}
		log.Info("request handled",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed))
	}
}

// respondError maps an application error onto the HTTP response.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(errors.HTTPStatusForCode(code), gin.H{
		"code":    code.String(),
		"message": err.Error(),
	})
}
