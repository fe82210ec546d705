package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTracesListBySession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sessionId"); got != "S" {
			t.Errorf("sessionId = %q, want S", got)
		}
		json.NewEncoder(w).Encode(TracesListResponse{
			Data: []Trace{{ID: "t1", SessionID: "S"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	traces, err := client.Traces().ListBySession(context.Background(), "S")
	if err != nil {
		t.Fatalf("ListBySession failed: %v", err)
	}
	if len(traces) != 1 || traces[0].ID != "t1" {
		t.Errorf("traces = %+v", traces)
	}
}

func TestTracesGetReturnsObservations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/traces/t1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(TraceWithObservations{
			Trace: Trace{ID: "t1", SessionID: "S", Tags: []string{"chapter_1"}},
			Observations: []Observation{
				{ID: "o1", TraceID: "t1", Type: ObservationTypeAgent, Name: "Mortal"},
				{ID: "o2", TraceID: "t1", Type: ObservationTypeGeneration, ParentObservationID: "o1"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	detail, err := client.Traces().Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.ID != "t1" || len(detail.Observations) != 2 {
		t.Errorf("detail = %+v", detail)
	}
	if detail.Observations[1].ParentObservationID != "o1" {
		t.Errorf("parent link lost: %+v", detail.Observations[1])
	}
}
