package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// newPaginatedServer serves n sessions in pages of the requested limit,
// recording which pages were asked for.
func newPaginatedServer(t *testing.T, n int, pagesSeen *[]int) *httptest.Server {
	t.Helper()
	sessions := make([]Session, n)
	for i := range sessions {
		sessions[i] = Session{ID: fmt.Sprintf("session-%03d", i)}
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		*pagesSeen = append(*pagesSeen, page)

		start := (page - 1) * limit
		end := start + limit
		if start > len(sessions) {
			start = len(sessions)
		}
		if end > len(sessions) {
			end = len(sessions)
		}
		json.NewEncoder(w).Encode(SessionsListResponse{
			Data: sessions[start:end],
			// Deliberately wrong totals: termination must not trust them.
			Meta: MetaResponse{Page: page, Limit: limit, TotalItems: 9999, TotalPages: 9999},
		})
	}))
}

func TestSessionsListAll(t *testing.T) {
	var pages []int
	server := newPaginatedServer(t, 7, &pages)
	defer server.Close()

	client := newTestClient(t, server.URL, WithPageSize(3))
	sessions, err := client.Sessions().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	if len(sessions) != 7 {
		t.Errorf("got %d sessions, want 7", len(sessions))
	}
	if len(pages) != 3 {
		t.Errorf("pages fetched = %v, want [1 2 3]", pages)
	}
	if sessions[0].ID != "session-000" || sessions[6].ID != "session-006" {
		t.Errorf("ordering not preserved: first %s last %s", sessions[0].ID, sessions[6].ID)
	}
}

func TestSessionsListAllShortFirstPage(t *testing.T) {
	var pages []int
	server := newPaginatedServer(t, 2, &pages)
	defer server.Close()

	client := newTestClient(t, server.URL, WithPageSize(100))
	sessions, err := client.Sessions().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(sessions) != 2 || len(pages) != 1 {
		t.Errorf("got %d sessions over %d pages, want 2 over 1", len(sessions), len(pages))
	}
}

func TestSessionsListParams(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		json.NewEncoder(w).Encode(SessionsListResponse{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Sessions().List(context.Background(), &SessionsListParams{
		PaginationParams: PaginationParams{Page: 2, Limit: 25},
		FromTimestamp:    "2025-06-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if got := query["page"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("page = %v", got)
	}
	if got := query["limit"]; len(got) != 1 || got[0] != "25" {
		t.Errorf("limit = %v", got)
	}
	if got := query["fromTimestamp"]; len(got) != 1 || got[0] != "2025-06-01T00:00:00Z" {
		t.Errorf("fromTimestamp = %v", got)
	}
}

func TestSessionsGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/abc" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(Session{ID: "abc"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	session, err := client.Sessions().Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if session.ID != "abc" {
		t.Errorf("got %q, want abc", session.ID)
	}
}
