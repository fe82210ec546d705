package insights

import (
	"net/http"
	"time"
)

// Default configuration values.
const (
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry ceiling for a single request.
	DefaultMaxRetries = 5

	// DefaultRetryDelay is the fixed delay before retrying a non-rate-limit
	// failure.
	DefaultRetryDelay = 2 * time.Second

	// DefaultRateLimitBase is the base for exponential backoff on HTTP 429:
	// attempt n waits 2^n * base.
	DefaultRateLimitBase = 2 * time.Second

	// DefaultPageSize is the default page size for list requests.
	DefaultPageSize = 100

	// DefaultPageDelay is the fixed delay inserted between page requests,
	// successful or not, to avoid tripping upstream rate limiting.
	DefaultPageDelay = 500 * time.Millisecond

	// DefaultTraceDetailDelay is the delay between per-trace detail fetches
	// during a snapshot download.
	DefaultTraceDetailDelay = 300 * time.Millisecond

	// MaxPageSize is the largest page size the upstream API accepts.
	MaxPageSize = 500
)

// Config holds the configuration for the client.
type Config struct {
	// PublicKey is the Langfuse public key (required).
	PublicKey string

	// SecretKey is the Langfuse secret key (required).
	SecretKey string

	// BaseURL is the base URL for the Langfuse API.
	// If not set, it will be derived from the Region.
	BaseURL string

	// Region is the Langfuse cloud region.
	// Defaults to RegionUS if not set and BaseURL is empty.
	Region Region

	// HTTPClient is the HTTP client to use for requests.
	// If not set, a default client with the configured Timeout is used.
	HTTPClient *http.Client

	// Timeout is the per-request timeout.
	// Defaults to 30 seconds if not set.
	Timeout time.Duration

	// MaxRetries is the retry ceiling for failed requests.
	// Defaults to 5 if not set.
	MaxRetries int

	// RetryDelay is the fixed delay before retrying failures other than
	// rate limiting. Defaults to 2 seconds if not set.
	RetryDelay time.Duration

	// RateLimitBase is the base duration for exponential backoff on 429
	// responses. Defaults to 2 seconds if not set.
	RateLimitBase time.Duration

	// PageSize is the page size used by ListAll pagination.
	// Defaults to 100 if not set; capped at MaxPageSize.
	PageSize int

	// PageDelay is the fixed inter-page delay during pagination.
	// Defaults to 500ms. Set negative to disable.
	PageDelay time.Duration

	// TraceDetailDelay is the delay between per-trace detail requests during
	// snapshot downloads. Defaults to 300ms. Set negative to disable.
	TraceDetailDelay time.Duration

	// Debug enables debug logging of every request.
	Debug bool

	// Logger receives structured log output. If nil, logging is disabled.
	Logger StructuredLogger

	// Metrics receives package telemetry. If nil, no metrics are collected.
	Metrics Metrics
}

// applyDefaults fills in zero-valued fields with defaults.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		region := c.Region
		if region == "" {
			region = RegionUS
		}
		c.BaseURL = regionBaseURLs[region]
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.RateLimitBase <= 0 {
		c.RateLimitBase = DefaultRateLimitBase
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	if c.PageDelay == 0 {
		c.PageDelay = DefaultPageDelay
	}
	if c.PageDelay < 0 {
		c.PageDelay = 0
	}
	if c.TraceDetailDelay == 0 {
		c.TraceDetailDelay = DefaultTraceDetailDelay
	}
	if c.TraceDetailDelay < 0 {
		c.TraceDetailDelay = 0
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = noopMetrics{}
	}
}

// validate checks that the configuration is usable.
func (c *Config) validate() error {
	if c.PublicKey == "" {
		return ErrMissingPublicKey
	}
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	return nil
}
