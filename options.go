package insights

import (
	"net/http"
	"time"
)

// ConfigOption is a function that modifies a Config.
type ConfigOption func(*Config)

// WithRegion sets the Langfuse cloud region.
func WithRegion(region Region) ConfigOption {
	return func(c *Config) {
		c.Region = region
	}
}

// WithBaseURL sets a custom base URL for the Langfuse API.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ConfigOption {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxRetries sets the retry ceiling for failed requests.
func WithMaxRetries(maxRetries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

// WithRetryDelay sets the fixed delay before retrying non-rate-limit failures.
func WithRetryDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = delay
	}
}

// WithRateLimitBase sets the base duration for exponential backoff on 429s.
func WithRateLimitBase(base time.Duration) ConfigOption {
	return func(c *Config) {
		c.RateLimitBase = base
	}
}

// WithPageSize sets the page size used by ListAll pagination.
func WithPageSize(size int) ConfigOption {
	return func(c *Config) {
		c.PageSize = size
	}
}

// WithPageDelay sets the fixed inter-page delay during pagination.
// Pass a negative duration to disable the delay entirely.
func WithPageDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.PageDelay = delay
	}
}

// WithTraceDetailDelay sets the delay between per-trace detail requests
// during snapshot downloads. Pass a negative duration to disable.
func WithTraceDetailDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.TraceDetailDelay = delay
	}
}

// WithDebug enables debug logging of every request.
func WithDebug(debug bool) ConfigOption {
	return func(c *Config) {
		c.Debug = debug
	}
}

// WithStructuredLogger sets a structured logger.
func WithStructuredLogger(logger StructuredLogger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets a metrics collector.
func WithMetrics(metrics Metrics) ConfigOption {
	return func(c *Config) {
		c.Metrics = metrics
	}
}
