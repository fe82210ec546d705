package insights

import (
	"encoding/json"
	"time"
)

// JSON is an alias for any, representing any JSON value.
// Generation input/output payloads arrive as arbitrary JSON and keep this type
// until the extraction pipeline in payload.go normalizes them to text.
type JSON = any

// Metadata is a free-form JSON object attached to traces and observations.
type Metadata map[string]any

// StringAt walks a path of nested object keys and returns the string value at
// the end of it. It returns false if any step is missing, not an object, or
// the final value is not a non-empty string.
func (m Metadata) StringAt(path ...string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	var cur any = map[string]any(m)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = obj[key]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Time is a custom time type that handles JSON marshaling/unmarshaling.
// When the time is zero, it marshals to JSON null. The API is not consistent
// about timestamp precision, so unmarshaling accepts several RFC3339 variants
// and Unix timestamps.
type Time struct {
	time.Time
}

// IsZero returns true if the time is the zero value.
func (t Time) IsZero() bool {
	return t.Time.IsZero()
}

// MarshalJSON implements json.Marshaler.
// Zero times are marshaled as JSON null.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Try parsing as a number (Unix timestamp)
		var ts float64
		if err := json.Unmarshal(data, &ts); err != nil {
			return err
		}
		t.Time = time.Unix(int64(ts), int64((ts-float64(int64(ts)))*1e9))
		return nil
	}
	if s == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			parsed, err = time.Parse("2006-01-02T15:04:05.000Z", s)
			if err != nil {
				return err
			}
		}
	}
	t.Time = parsed
	return nil
}

// TimeOf wraps a time.Time.
func TimeOf(t time.Time) Time {
	return Time{Time: t}
}

// Now returns the current time as a Time.
func Now() Time {
	return Time{Time: time.Now()}
}

// ObservationType represents the type of observation.
type ObservationType string

const (
	ObservationTypeAgent      ObservationType = "AGENT"
	ObservationTypeGeneration ObservationType = "GENERATION"
	ObservationTypeTool       ObservationType = "TOOL"
	ObservationTypeSpan       ObservationType = "SPAN"
	ObservationTypeTrace      ObservationType = "TRACE"
)

// String returns the string representation of the observation type.
func (o ObservationType) String() string { return string(o) }

// ObservationLevel represents the severity level of an observation.
type ObservationLevel string

const (
	ObservationLevelDebug   ObservationLevel = "DEBUG"
	ObservationLevelDefault ObservationLevel = "DEFAULT"
	ObservationLevelWarning ObservationLevel = "WARNING"
	ObservationLevelError   ObservationLevel = "ERROR"
)

// String returns the string representation of the observation level.
func (l ObservationLevel) String() string { return string(l) }

// Session represents a session: one playthrough owning many traces.
// Sessions are created by the upstream system and never mutated here.
type Session struct {
	ID          string `json:"id"`
	CreatedAt   Time   `json:"createdAt,omitempty"`
	Environment string `json:"environment,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
}

// Trace represents one end-to-end execution run of the agent workflow.
type Trace struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
	UserID    string   `json:"userId,omitempty"`
	Timestamp Time     `json:"timestamp,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Metadata  Metadata `json:"metadata,omitempty"`

	// Read-only aggregates returned by the API. Latency is in seconds.
	TotalCost   float64 `json:"totalCost,omitempty"`
	Latency     float64 `json:"latency,omitempty"`
	Environment string  `json:"environment,omitempty"`
	ProjectID   string  `json:"projectId,omitempty"`
}

// TraceWithObservations is the detail form returned by GET /traces/{id}:
// the trace plus its full observation subtree as a flat list.
type TraceWithObservations struct {
	Trace
	Observations []Observation `json:"observations,omitempty"`
}

// Observation represents one recorded unit of work inside a trace: an agent
// step, a model call, a tool call, or a grouping span.
//
// ParentObservationID links observations into a forest within their trace;
// multiple parentless roots are legal, and a referenced parent may be absent
// from a partially fetched record set.
type Observation struct {
	ID                  string           `json:"id"`
	TraceID             string           `json:"traceId,omitempty"`
	ParentObservationID string           `json:"parentObservationId,omitempty"`
	Type                ObservationType  `json:"type"`
	Name                string           `json:"name,omitempty"`
	StartTime           Time             `json:"startTime,omitempty"`
	EndTime             Time             `json:"endTime,omitempty"`
	Level               ObservationLevel `json:"level,omitempty"`
	StatusMessage       string           `json:"statusMessage,omitempty"`
	Metadata            Metadata         `json:"metadata,omitempty"`
	Environment         string           `json:"environment,omitempty"`

	// Generation-only fields; absent on other observation types.
	Model               string  `json:"model,omitempty"`
	TotalTokens         int     `json:"totalTokens,omitempty"`
	PromptTokens        int     `json:"promptTokens,omitempty"`
	CompletionTokens    int     `json:"completionTokens,omitempty"`
	CalculatedTotalCost float64 `json:"calculatedTotalCost,omitempty"`
	Input               JSON    `json:"input,omitempty"`
	Output              JSON    `json:"output,omitempty"`
}

// LatencyMs returns the observation's latency in milliseconds.
// Latency is undefined (reported as 0, not computed) when either timestamp
// is absent.
func (o *Observation) LatencyMs() int64 {
	if o.StartTime.IsZero() || o.EndTime.IsZero() {
		return 0
	}
	return o.EndTime.Sub(o.StartTime.Time).Milliseconds()
}

// IsError returns true if the observation recorded a failed execution.
func (o *Observation) IsError() bool {
	return o.Level == ObservationLevelError
}

// HealthStatus represents the health status of the upstream API.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
