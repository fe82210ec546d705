package insights

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testSnapshot() *Snapshot {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Snapshot{
		Sessions: []Session{{ID: "S", CreatedAt: TimeOf(base)}},
		Traces: []Trace{
			{ID: "t1", SessionID: "S", UserID: "alice", Timestamp: TimeOf(base),
				Tags: []string{"chapter_0"}, TotalCost: 0.01},
		},
		Observations: []Observation{
			{ID: "a1", TraceID: "t1", Type: ObservationTypeAgent, Name: "Introduction",
				StartTime: TimeOf(base), EndTime: TimeOf(base.Add(time.Second))},
			{ID: "g1", TraceID: "t1", Type: ObservationTypeGeneration, ParentObservationID: "a1",
				StartTime: TimeOf(base), EndTime: TimeOf(base.Add(time.Second)),
				CalculatedTotalCost: 0.01, TotalTokens: 50,
				Output: "Welcome, matchmaker."},
		},
		TraceDetails: map[string]TraceWithObservations{},
		DownloadedAt: TimeOf(base.Add(time.Hour)),
	}
}

func TestSnapshotFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	snap := testSnapshot()

	if err := snap.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile failed: %v", err)
	}

	if len(loaded.Sessions) != 1 || len(loaded.Traces) != 1 || len(loaded.Observations) != 2 {
		t.Errorf("loaded counts: %d/%d/%d", len(loaded.Sessions), len(loaded.Traces), len(loaded.Observations))
	}
	if !loaded.DownloadedAt.Equal(snap.DownloadedAt.Time) {
		t.Errorf("downloadedAt = %v, want %v", loaded.DownloadedAt, snap.DownloadedAt)
	}
	if loaded.Observations[1].Output == nil {
		t.Error("generation output lost in roundtrip")
	}
}

func TestReadSnapshotFileErrors(t *testing.T) {
	if _, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := ReadSnapshotFile(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestSnapshotObservationsForTrace(t *testing.T) {
	snap := testSnapshot()

	// No detail entry: falls back to filtering the flat list.
	if got := snap.ObservationsForTrace("t1"); len(got) != 2 {
		t.Errorf("fallback returned %d observations, want 2", len(got))
	}

	// Detail entry wins when present.
	snap.TraceDetails["t1"] = TraceWithObservations{
		Trace:        snap.Traces[0],
		Observations: snap.Observations[:1],
	}
	if got := snap.ObservationsForTrace("t1"); len(got) != 1 {
		t.Errorf("detail returned %d observations, want 1", len(got))
	}
}

func TestStoreLoadsOnceAndInvalidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := testSnapshot().WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := NewStore(path, nil)
	first, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	// Rewrite the file; the cached copy must keep serving until invalidated.
	bigger := testSnapshot()
	bigger.Sessions = append(bigger.Sessions, Session{ID: "S2"})
	if err := bigger.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cached, _ := store.Snapshot()
	if cached != first {
		t.Error("Snapshot should return the cached copy")
	}

	store.Invalidate()
	fresh, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot after Invalidate failed: %v", err)
	}
	if len(fresh.Sessions) != 2 {
		t.Errorf("got %d sessions after invalidate, want 2", len(fresh.Sessions))
	}
}

func TestStoreWithoutSource(t *testing.T) {
	store := NewStore("", nil)
	if _, err := store.Snapshot(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
	if err := store.Refresh(context.Background()); err == nil {
		t.Error("Refresh without a downloader should fail")
	}
}

func TestStoreRefresh(t *testing.T) {
	server := newSnapshotServer(t, "")
	defer server.Close()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	client := newTestClient(t, server.URL)
	store := NewStore(path, NewDownloader(client))

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// The refreshed snapshot is persisted and served.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file not written: %v", err)
	}
	snap, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Traces) != 2 {
		t.Errorf("got %d traces, want 2", len(snap.Traces))
	}
}

func TestStoreDerivedViews(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := testSnapshot().WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	store := NewStore(path, nil)

	stats, err := store.AgentStats()
	if err != nil {
		t.Fatalf("AgentStats failed: %v", err)
	}
	if len(stats) != 1 || stats[0].Name != "Introduction" || stats[0].TotalTokens != 50 {
		t.Errorf("stats = %+v", stats)
	}

	transcript, err := store.SessionTranscript("S")
	if err != nil {
		t.Fatalf("SessionTranscript failed: %v", err)
	}
	if len(transcript) != 1 || transcript[0].Content != "Welcome, matchmaker." {
		t.Errorf("transcript = %+v", transcript)
	}
	if transcript[0].Agent != "Introduction" {
		t.Errorf("agent = %q, want Introduction", transcript[0].Agent)
	}

	progress, err := store.SessionProgress("S")
	if err != nil {
		t.Fatalf("SessionProgress failed: %v", err)
	}
	if progress.IsComplete || progress.MaxChapter != 0 || progress.Label != "Introduction" {
		t.Errorf("progress = %+v", progress)
	}

	summaries, err := store.SessionSummaries()
	if err != nil {
		t.Fatalf("SessionSummaries failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].UserID != "alice" {
		t.Errorf("summaries = %+v", summaries)
	}

	users, err := store.Users()
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 1 || users[0].UserID != "alice" {
		t.Errorf("users = %+v", users)
	}

	metrics, err := store.Metrics()
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if metrics.TotalTraces != 1 || metrics.TotalSessions != 1 {
		t.Errorf("metrics = %+v", metrics)
	}
}
