package insightstest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	insights "github.com/cupidlabs/insights-go"
)

// Fixture builders for realistic game telemetry. A playthrough is a session
// owning one trace per chapter; each trace carries the generic root span, a
// named agent step under it, and a generation under the agent.

// PlaythroughOption customizes a generated playthrough.
type PlaythroughOption func(*playthroughConfig)

type playthroughConfig struct {
	userID   string
	chapters int
	start    time.Time
}

// WithUserID sets the playthrough's user.
func WithUserID(userID string) PlaythroughOption {
	return func(c *playthroughConfig) { c.userID = userID }
}

// WithChapters sets how many chapters the playthrough reaches.
func WithChapters(n int) PlaythroughOption {
	return func(c *playthroughConfig) { c.chapters = n }
}

// WithStartTime anchors the playthrough's first trace.
func WithStartTime(t time.Time) PlaythroughOption {
	return func(c *playthroughConfig) { c.start = t }
}

// chapterAgents maps chapter numbers to the content agent that runs there.
var chapterAgents = map[int]string{
	0: "Introduction",
	1: "Mortal",
	2: "Match",
	3: "CompatibilityAnalysis",
	4: "CupidEvaluation",
	5: "CupidEvaluation",
	6: "End",
}

// NewPlaythrough generates a session with one trace per chapter reached,
// each trace carrying a root span, an agent step, and a generation. The
// returned dataset is self-consistent: every observation's trace and parent
// exist, and trace details mirror the flat observation list.
func NewPlaythrough(opts ...PlaythroughOption) *Dataset {
	cfg := playthroughConfig{
		userID:   "user-" + uuid.NewString()[:8],
		chapters: 3,
		start:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	sessionID := "session-" + uuid.NewString()
	ds := &Dataset{
		Sessions: []insights.Session{{
			ID:        sessionID,
			CreatedAt: insights.TimeOf(cfg.start),
		}},
		TraceDetails: make(map[string]insights.TraceWithObservations),
	}

	for chapter := 0; chapter <= cfg.chapters && chapter <= 6; chapter++ {
		agent := chapterAgents[chapter]
		traceStart := cfg.start.Add(time.Duration(chapter) * time.Minute)
		trace := insights.Trace{
			ID:        "trace-" + uuid.NewString(),
			Name:      "Agent workflow",
			SessionID: sessionID,
			UserID:    cfg.userID,
			Timestamp: insights.TimeOf(traceStart),
			Tags:      []string{fmt.Sprintf("chapter_%d", chapter)},
			Metadata: insights.Metadata{
				"mortal": "Alex",
				"match":  "Sam",
			},
			TotalCost: 0.002,
			Latency:   1.5,
		}

		root := insights.Observation{
			ID:        "obs-" + uuid.NewString(),
			TraceID:   trace.ID,
			Type:      insights.ObservationTypeAgent,
			Name:      "Agent workflow",
			StartTime: insights.TimeOf(traceStart),
			EndTime:   insights.TimeOf(traceStart.Add(3 * time.Second)),
		}
		step := insights.Observation{
			ID:                  "obs-" + uuid.NewString(),
			TraceID:             trace.ID,
			ParentObservationID: root.ID,
			Type:                insights.ObservationTypeAgent,
			Name:                agent,
			StartTime:           insights.TimeOf(traceStart.Add(100 * time.Millisecond)),
			EndTime:             insights.TimeOf(traceStart.Add(2900 * time.Millisecond)),
		}
		gen := insights.Observation{
			ID:                  "obs-" + uuid.NewString(),
			TraceID:             trace.ID,
			ParentObservationID: step.ID,
			Type:                insights.ObservationTypeGeneration,
			StartTime:           insights.TimeOf(traceStart.Add(200 * time.Millisecond)),
			EndTime:             insights.TimeOf(traceStart.Add(2800 * time.Millisecond)),
			Model:               "gpt-4o-mini",
			TotalTokens:         150,
			PromptTokens:        100,
			CompletionTokens:    50,
			CalculatedTotalCost: 0.002,
			Input: []any{
				map[string]any{"role": "system", "content": "You are Cupid."},
				map[string]any{"role": "user", "content": fmt.Sprintf("Continue chapter %d", chapter)},
			},
			Output: map[string]any{
				"content": fmt.Sprintf("%s speaks in chapter %d.", agent, chapter),
			},
		}

		ds.Traces = append(ds.Traces, trace)
		ds.Observations = append(ds.Observations, root, step, gen)
		ds.TraceDetails[trace.ID] = insights.TraceWithObservations{
			Trace:        trace,
			Observations: []insights.Observation{root, step, gen},
		}
	}

	return ds
}

// Merge combines several datasets into one.
func Merge(datasets ...*Dataset) *Dataset {
	out := &Dataset{TraceDetails: make(map[string]insights.TraceWithObservations)}
	for _, ds := range datasets {
		out.Sessions = append(out.Sessions, ds.Sessions...)
		out.Traces = append(out.Traces, ds.Traces...)
		out.Observations = append(out.Observations, ds.Observations...)
		for id, detail := range ds.TraceDetails {
			out.TraceDetails[id] = detail
		}
	}
	return out
}
