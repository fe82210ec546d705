package insightstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	insights "github.com/cupidlabs/insights-go"
)

// MockServer is a test HTTP server speaking the telemetry provider's read
// API: paginated session, trace, and observation listings plus per-trace
// detail. It serves whatever Dataset it holds and records every request for
// verification.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*RecordedRequest
	failures []failure
	dataset  *Dataset

	// ResponseFunc overrides all response handling when set.
	ResponseFunc func(r *http.Request) (int, any)
}

type failure struct {
	status     int
	retryAfter string
}

// RecordedRequest represents a recorded HTTP request.
type RecordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Auth   string
}

// Dataset is the canned corpus a MockServer serves.
type Dataset struct {
	Sessions     []insights.Session
	Traces       []insights.Trace
	Observations []insights.Observation
	TraceDetails map[string]insights.TraceWithObservations
}

// NewMockServer creates a mock server over an empty dataset.
func NewMockServer() *MockServer {
	ms := &MockServer{dataset: &Dataset{}}
	ms.Server = httptest.NewServer(http.HandlerFunc(ms.handle))
	return ms
}

// NewMockServerWithDataset creates a mock server serving the given dataset.
func NewMockServerWithDataset(ds *Dataset) *MockServer {
	ms := &MockServer{dataset: ds}
	ms.Server = httptest.NewServer(http.HandlerFunc(ms.handle))
	return ms
}

// SetDataset replaces the served dataset.
func (ms *MockServer) SetDataset(ds *Dataset) {
	ms.mu.Lock()
	ms.dataset = ds
	ms.mu.Unlock()
}

func (ms *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.requests = append(ms.requests, &RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
	})
	var fail *failure
	if len(ms.failures) > 0 {
		f := ms.failures[0]
		ms.failures = ms.failures[1:]
		fail = &f
	}
	ds := ms.dataset
	override := ms.ResponseFunc
	ms.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if fail != nil {
		if fail.retryAfter != "" {
			w.Header().Set("Retry-After", fail.retryAfter)
		}
		w.WriteHeader(fail.status)
		json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(fail.status)})
		return
	}

	if override != nil {
		status, body := override(r)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
		return
	}

	status, body := ms.route(r, ds)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (ms *MockServer) route(r *http.Request, ds *Dataset) (int, any) {
	path := r.URL.Path
	page, limit := pageParams(r)

	switch {
	case path == "/health":
		return http.StatusOK, insights.HealthStatus{Status: "OK", Version: "test"}

	case path == "/sessions":
		data, meta := paginate(ds.Sessions, page, limit)
		return http.StatusOK, map[string]any{"data": data, "meta": meta}

	case path == "/traces":
		traces := ds.Traces
		if sessionID := r.URL.Query().Get("sessionId"); sessionID != "" {
			traces = nil
			for _, t := range ds.Traces {
				if t.SessionID == sessionID {
					traces = append(traces, t)
				}
			}
		}
		data, meta := paginate(traces, page, limit)
		return http.StatusOK, map[string]any{"data": data, "meta": meta}

	case strings.HasPrefix(path, "/traces/"):
		id := strings.TrimPrefix(path, "/traces/")
		if detail, ok := ds.TraceDetails[id]; ok {
			return http.StatusOK, detail
		}
		for _, t := range ds.Traces {
			if t.ID == id {
				return http.StatusOK, insights.TraceWithObservations{Trace: t}
			}
		}
		return http.StatusNotFound, map[string]string{"message": "trace not found"}

	case path == "/observations":
		obs := ds.Observations
		if traceID := r.URL.Query().Get("traceId"); traceID != "" {
			obs = nil
			for _, o := range ds.Observations {
				if o.TraceID == traceID {
					obs = append(obs, o)
				}
			}
		}
		data, meta := paginate(obs, page, limit)
		return http.StatusOK, map[string]any{"data": data, "meta": meta}

	case strings.HasPrefix(path, "/observations/"):
		id := strings.TrimPrefix(path, "/observations/")
		for _, o := range ds.Observations {
			if o.ID == id {
				return http.StatusOK, o
			}
		}
		return http.StatusNotFound, map[string]string{"message": "observation not found"}

	case strings.HasPrefix(path, "/sessions/"):
		id := strings.TrimPrefix(path, "/sessions/")
		for _, s := range ds.Sessions {
			if s.ID == id {
				return http.StatusOK, s
			}
		}
		return http.StatusNotFound, map[string]string{"message": "session not found"}
	}

	return http.StatusNotFound, map[string]string{"message": "unknown endpoint"}
}

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	return page, limit
}

// paginate slices one page out of a list. The returned data is never nil so
// it encodes as an empty JSON array.
func paginate[T any](items []T, page, limit int) ([]T, map[string]int) {
	meta := map[string]int{
		"page":       page,
		"limit":      limit,
		"totalItems": len(items),
		"totalPages": (len(items) + limit - 1) / limit,
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}

// FailNext queues n failures with the given status before the server resumes
// serving its dataset. Use it to exercise retry behavior.
func (ms *MockServer) FailNext(n, status int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i := 0; i < n; i++ {
		ms.failures = append(ms.failures, failure{status: status})
	}
}

// FailNextWithRetryAfter queues n rate-limit failures carrying a Retry-After
// header of the given number of seconds.
func (ms *MockServer) FailNextWithRetryAfter(n, seconds int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i := 0; i < n; i++ {
		ms.failures = append(ms.failures, failure{
			status:     http.StatusTooManyRequests,
			retryAfter: strconv.Itoa(seconds),
		})
	}
}

// RespondWith configures the server to answer every request with a fixed
// status and body, bypassing the dataset.
func (ms *MockServer) RespondWith(statusCode int, body any) {
	ms.ResponseFunc = func(r *http.Request) (int, any) {
		return statusCode, body
	}
}

// Requests returns all recorded requests.
func (ms *MockServer) Requests() []*RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]*RecordedRequest{}, ms.requests...)
}

// RequestCount returns the number of recorded requests.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// RequestsWithPath returns all requests that matched the given path.
func (ms *MockServer) RequestsWithPath(path string) []*RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var matched []*RecordedRequest
	for _, req := range ms.requests {
		if req.Path == path {
			matched = append(matched, req)
		}
	}
	return matched
}

// Reset clears recorded requests and queued failures.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.requests = nil
	ms.failures = nil
}
