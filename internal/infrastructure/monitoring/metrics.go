// Package monitoring provides Prometheus metrics for the engine
package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Engine metrics
	suggestionsServedTotal   *prometheus.CounterVec
	fallbackGenerationsTotal *prometheus.CounterVec
	feedbackRecordedTotal    *prometheus.CounterVec
	dailyUpdateProfiles      *prometheus.CounterVec
	dailyUpdatePassesTotal   prometheus.Counter
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		suggestionsServedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "suggestions_served_total",
				Help: "Total number of suggestion runs served",
			},
			[]string{"fallback"},
		),
		fallbackGenerationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fallback_generations_total",
				Help: "Improvised recipe generations by recovery stage",
			},
			[]string{"stage"},
		),
		feedbackRecordedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedback_recorded_total",
				Help: "Feedback submissions by parsed sentiment",
			},
			[]string{"sentiment"},
		),
		dailyUpdateProfiles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daily_update_profiles_total",
				Help: "Profiles processed by daily update passes",
			},
			[]string{"outcome"},
		),
		dailyUpdatePassesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "daily_update_passes_total",
				Help: "Completed daily update passes",
			},
		),
	}
}

// SuggestionServed records one completed suggestion run
func (m *MetricsCollector) SuggestionServed(fallback bool) {
	m.suggestionsServedTotal.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}

// FallbackGeneration records one improvised generation by stage
func (m *MetricsCollector) FallbackGeneration(stage string) {
	m.fallbackGenerationsTotal.WithLabelValues(stage).Inc()
}

// FeedbackRecorded records one accepted feedback submission
func (m *MetricsCollector) FeedbackRecorded(sentiment string) {
	if sentiment == "" {
		sentiment = "unknown"
	}
	m.feedbackRecordedTotal.WithLabelValues(sentiment).Inc()
}

// DailyUpdatePass records the outcome counts of one batch pass
func (m *MetricsCollector) DailyUpdatePass(updated, failed int) {
	m.dailyUpdateProfiles.WithLabelValues("updated").Add(float64(updated))
	m.dailyUpdateProfiles.WithLabelValues("failed").Add(float64(failed))
	m.dailyUpdatePassesTotal.Inc()
}

// GinMiddleware returns middleware that records HTTP metrics
func (m *MetricsCollector) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint
func (m *MetricsCollector) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
