package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Snapshot is a persisted capture of the upstream project's telemetry: the
// flat record lists plus per-trace detail, as written by a Downloader.
// Every derived view in this package can be computed from a Snapshot without
// touching the network.
type Snapshot struct {
	Sessions     []Session                        `json:"sessions"`
	Traces       []Trace                          `json:"traces"`
	Observations []Observation                    `json:"observations"`
	TraceDetails map[string]TraceWithObservations `json:"traceDetails"`
	DownloadedAt Time                             `json:"downloadedAt"`
}

// TracesForSession returns the snapshot's traces belonging to a session.
func (s *Snapshot) TracesForSession(sessionID string) []Trace {
	var out []Trace
	for _, t := range s.Traces {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out
}

// ObservationsForTrace returns the observations of one trace, preferring the
// nested detail capture and falling back to filtering the flat observation
// list for traces whose detail fetch was skipped.
func (s *Snapshot) ObservationsForTrace(traceID string) []Observation {
	if detail, ok := s.TraceDetails[traceID]; ok {
		return detail.Observations
	}
	var out []Observation
	for _, o := range s.Observations {
		if o.TraceID == traceID {
			out = append(out, o)
		}
	}
	return out
}

// Session returns a session by ID.
func (s *Snapshot) Session(sessionID string) (Session, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == sessionID {
			return sess, true
		}
	}
	return Session{}, false
}

// WriteFile persists the snapshot as a single indented JSON document.
func (s *Snapshot) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("insights: failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("insights: failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshotFile loads a snapshot previously written by WriteFile.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("insights: failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("insights: failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

// Store is a read-through cache over a snapshot file with an explicit
// lifecycle: the file is loaded once on first use, Refresh re-downloads and
// replaces it, and Invalidate drops the in-memory copy so the next access
// reloads from disk. It replaces the module-global cache the original
// dashboard used with a passed-in object.
//
// The derived-view methods hand the cached records to the pure engine
// functions; results are recomputed on every call, never cached.
type Store struct {
	mu         sync.Mutex
	path       string
	downloader *Downloader
	snap       *Snapshot
}

// NewStore creates a Store over a snapshot file. The downloader may be nil,
// in which case Refresh is unavailable and the store only reads the file.
func NewStore(path string, downloader *Downloader) *Store {
	return &Store{path: path, downloader: downloader}
}

// Snapshot returns the cached snapshot, loading it from disk on first use.
func (st *Store) Snapshot() (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshotLocked()
}

func (st *Store) snapshotLocked() (*Snapshot, error) {
	if st.snap != nil {
		return st.snap, nil
	}
	if st.path == "" {
		return nil, ErrNoSnapshot
	}
	snap, err := ReadSnapshotFile(st.path)
	if err != nil {
		return nil, err
	}
	st.snap = snap
	return snap, nil
}

// Refresh downloads a fresh snapshot, writes it to the store's file, and
// replaces the cached copy. On failure the previous snapshot is kept, so
// readers keep serving the last good capture.
func (st *Store) Refresh(ctx context.Context) error {
	if st.downloader == nil {
		return fmt.Errorf("insights: store has no downloader configured")
	}
	snap, err := st.downloader.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := snap.WriteFile(st.path); err != nil {
		return err
	}
	st.mu.Lock()
	st.snap = snap
	st.mu.Unlock()
	return nil
}

// Invalidate drops the cached snapshot. The next access reloads from disk.
func (st *Store) Invalidate() {
	st.mu.Lock()
	st.snap = nil
	st.mu.Unlock()
}

// AgentStats computes per-agent statistics over the whole snapshot.
func (st *Store) AgentStats() ([]AgentStats, error) {
	snap, err := st.Snapshot()
	if err != nil {
		return nil, err
	}
	return ComputeAgentStats(snap.Observations), nil
}

// SessionTranscript reconstructs the conversation for one session.
func (st *Store) SessionTranscript(sessionID string) ([]ConversationMessage, error) {
	snap, err := st.Snapshot()
	if err != nil {
		return nil, err
	}
	traces := snap.TracesForSession(sessionID)
	byTrace := make(map[string][]Observation, len(traces))
	for _, t := range traces {
		byTrace[t.ID] = snap.ObservationsForTrace(t.ID)
	}
	return BuildTranscript(sessionID, traces, byTrace), nil
}

// SessionProgress classifies one session's completion state.
func (st *Store) SessionProgress(sessionID string) (SessionProgress, error) {
	transcript, err := st.SessionTranscript(sessionID)
	if err != nil {
		return SessionProgress{}, err
	}
	snap, _ := st.Snapshot()
	var tags []string
	for _, t := range snap.TracesForSession(sessionID) {
		tags = append(tags, t.Tags...)
	}
	return Classify(transcript, tags), nil
}

// SessionSummaries rolls up every session's traces into summaries, ordered
// most recently created first.
func (st *Store) SessionSummaries() ([]SessionSummary, error) {
	snap, err := st.Snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]SessionSummary, 0, len(snap.Sessions))
	for _, sess := range snap.Sessions {
		out = append(out, SummarizeSession(sess, snap.TracesForSession(sess.ID)))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out, nil
}

// Users groups the snapshot's sessions and traces by user.
func (st *Store) Users() ([]UserActivity, error) {
	snap, err := st.Snapshot()
	if err != nil {
		return nil, err
	}
	return GroupByUser(snap.Sessions, snap.Traces), nil
}

// Metrics computes corpus-wide usage metrics.
func (st *Store) Metrics() (UsageMetrics, error) {
	snap, err := st.Snapshot()
	if err != nil {
		return UsageMetrics{}, err
	}
	return ComputeUsageMetrics(snap.Sessions, snap.Traces), nil
}
