package insights

import "time"

// Metrics is an optional interface for package telemetry.
// If configured, the HTTP layer reports request counts, retries, and
// durations through it. Implementations must be safe for concurrent use.
type Metrics interface {
	// IncrementCounter increments a counter metric.
	IncrementCounter(name string, value int64)
	// RecordDuration records a duration metric.
	RecordDuration(name string, duration time.Duration)
	// SetGauge sets a gauge metric.
	SetGauge(name string, value float64)
}

// Metric names reported by the HTTP layer.
const (
	MetricRequests     = "insights.http.requests"
	MetricRetries      = "insights.http.retries"
	MetricRateLimited  = "insights.http.rate_limited"
	MetricRequestTime  = "insights.http.request_duration"
	MetricPagesFetched = "insights.http.pages_fetched"
)

// noopMetrics discards all metrics. Used when no Metrics is configured.
type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, int64)       {}
func (noopMetrics) RecordDuration(string, time.Duration) {}
func (noopMetrics) SetGauge(string, float64)             {}
