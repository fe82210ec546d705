package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestObservationsListFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("traceId") != "t1" || q.Get("type") != "GENERATION" || q.Get("parentObservationId") != "p1" {
			t.Errorf("unexpected query: %v", q)
		}
		json.NewEncoder(w).Encode(ObservationsListResponse{
			Data: []Observation{{ID: "o1"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Observations().List(context.Background(), &ObservationsListParams{
		FilterParams:        FilterParams{TraceID: "t1", Type: "GENERATION"},
		ParentObservationID: "p1",
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestObservationsGenerationPayloadDecoding(t *testing.T) {
	// Input/output arrive as arbitrary JSON and must survive decoding with
	// their shape intact for the extraction pipeline.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "g1",
			"type": "GENERATION",
			"input": [{"role": "user", "content": "hello"}],
			"output": {"content": "hi there"},
			"totalTokens": 42,
			"calculatedTotalCost": 0.001
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	obs, err := client.Observations().Get(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	text, ok := ExtractUserInput(obs.Input)
	if !ok || text != "hello" {
		t.Errorf("ExtractUserInput = %q, %v", text, ok)
	}
	if got := ExtractAgentOutput(obs.Output); got != "hi there" {
		t.Errorf("ExtractAgentOutput = %q", got)
	}
	if obs.TotalTokens != 42 {
		t.Errorf("totalTokens = %d", obs.TotalTokens)
	}
}
