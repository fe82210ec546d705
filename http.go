package insights

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// httpClient handles HTTP requests to the Langfuse API.
type httpClient struct {
	client        *http.Client
	baseURL       string
	authHeader    string
	maxRetries    int
	retryDelay    time.Duration
	rateLimitBase time.Duration
	debug         bool
	logger        StructuredLogger
	metrics       Metrics
}

// newHTTPClient creates a new HTTP client.
func newHTTPClient(cfg *Config) *httpClient {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey))
	return &httpClient{
		client:        cfg.HTTPClient,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		authHeader:    "Basic " + auth,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
		rateLimitBase: cfg.RateLimitBase,
		debug:         cfg.Debug,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
	}
}

// get performs a GET request with retries. Rate-limited requests back off
// exponentially (2^attempt * rateLimitBase); any other failure is retried
// after the fixed retryDelay. After maxRetries attempts the failure is
// terminal and wrapped in an IngestionError so it cannot be mistaken for an
// empty result.
func (h *httpClient) get(ctx context.Context, path string, query url.Values, result any) error {
	var lastErr error

	for attempt := 1; attempt <= h.maxRetries; attempt++ {
		err := h.getOnce(ctx, path, query, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == h.maxRetries {
			break
		}

		delay := h.retryDelay
		if apiErr, ok := AsAPIError(err); ok && apiErr.IsRateLimited() {
			h.metrics.IncrementCounter(MetricRateLimited, 1)
			delay = h.rateLimitBase * (1 << uint(attempt))
			if apiErr.RetryAfter > delay {
				delay = apiErr.RetryAfter
			}
			h.logger.Warn("rate limited, backing off",
				"path", path, "attempt", attempt, "delay", delay)
		} else {
			h.logger.Warn("request failed, retrying",
				"path", path, "attempt", attempt, "error", err)
		}
		h.metrics.IncrementCounter(MetricRetries, 1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &IngestionError{Endpoint: path, Attempts: h.maxRetries, Err: lastErr}
}

// getOnce executes a single GET request.
func (h *httpClient) getOnce(ctx context.Context, path string, query url.Values, result any) error {
	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("insights: failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", h.authHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "insights-go/1.0.0")

	if h.debug {
		h.logger.Debug("request", "url", u)
	}

	start := time.Now()
	resp, err := h.client.Do(httpReq)
	h.metrics.IncrementCounter(MetricRequests, 1)
	if err != nil {
		return fmt.Errorf("insights: request failed: %w", err)
	}
	defer resp.Body.Close()
	h.metrics.RecordDuration(MetricRequestTime, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("insights: failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(respBody) > 0 {
			json.Unmarshal(respBody, apiErr)
		}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				apiErr.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("insights: failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// Pagination helpers

// PaginationParams represents pagination parameters for list requests.
type PaginationParams struct {
	Page  int
	Limit int
}

// ToQuery converts pagination parameters to URL query values.
func (p *PaginationParams) ToQuery() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// MetaResponse represents pagination metadata.
// The reported totals are advisory: the provider has returned inconsistent
// totals under load, so pagination termination never depends on them.
type MetaResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// FilterParams represents common filter parameters for list requests.
type FilterParams struct {
	Name      string
	UserID    string
	Type      string
	TraceID   string
	SessionID string
	Tags      []string
}

// ToQuery converts filter parameters to URL query values.
func (f *FilterParams) ToQuery() url.Values {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.TraceID != "" {
		q.Set("traceId", f.TraceID)
	}
	if f.SessionID != "" {
		q.Set("sessionId", f.SessionID)
	}
	for _, tag := range f.Tags {
		q.Add("tags", tag)
	}
	return q
}

// mergeQuery merges multiple url.Values into one.
func mergeQuery(queries ...url.Values) url.Values {
	result := url.Values{}
	for _, q := range queries {
		for k, v := range q {
			for _, val := range v {
				result.Add(k, val)
			}
		}
	}
	return result
}
