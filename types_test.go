package insights

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2025-06-01T12:00:00Z"`, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"rfc3339 nano", `"2025-06-01T12:00:00.123456789Z"`, time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)},
		{"millis", `"2025-06-01T12:00:00.500Z"`, time.Date(2025, 6, 1, 12, 0, 0, 500000000, time.UTC)},
		{"null", `null`, time.Time{}},
		{"unix", `1748779200`, time.Unix(1748779200, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Time
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimeMarshalZeroIsNull(t *testing.T) {
	data, err := json.Marshal(Time{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("got %s, want null", data)
	}
}

func TestObservationLatencyMs(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	obs := Observation{
		StartTime: TimeOf(start),
		EndTime:   TimeOf(start.Add(2500 * time.Millisecond)),
	}
	if got := obs.LatencyMs(); got != 2500 {
		t.Errorf("LatencyMs() = %d, want 2500", got)
	}

	noEnd := Observation{StartTime: TimeOf(start)}
	if got := noEnd.LatencyMs(); got != 0 {
		t.Errorf("LatencyMs() without end time = %d, want 0", got)
	}

	noStart := Observation{EndTime: TimeOf(start)}
	if got := noStart.LatencyMs(); got != 0 {
		t.Errorf("LatencyMs() without start time = %d, want 0", got)
	}
}

func TestMetadataStringAt(t *testing.T) {
	md := Metadata{
		"attributes": map[string]any{
			"graph.node.id": "Mortal",
			"count":         float64(3),
		},
		"mortal": "Alex",
	}

	if got, ok := md.StringAt("attributes", "graph.node.id"); !ok || got != "Mortal" {
		t.Errorf("StringAt(attributes, graph.node.id) = %q, %v", got, ok)
	}
	if got, ok := md.StringAt("mortal"); !ok || got != "Alex" {
		t.Errorf("StringAt(mortal) = %q, %v", got, ok)
	}
	if _, ok := md.StringAt("attributes", "missing"); ok {
		t.Error("StringAt on missing key should return false")
	}
	if _, ok := md.StringAt("attributes", "count"); ok {
		t.Error("StringAt on non-string value should return false")
	}
	if _, ok := md.StringAt("mortal", "nested"); ok {
		t.Error("StringAt through a non-object should return false")
	}
}
