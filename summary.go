package insights

import "sort"

// SessionSummary rolls one session's traces up into the headline fields the
// dashboard shows in its session list: the two character names the game
// generated, chapters reached, and cost/latency totals.
type SessionSummary struct {
	SessionID  string          `json:"sessionId"`
	UserID     string          `json:"userId,omitempty"`
	CreatedAt  Time            `json:"createdAt,omitempty"`
	Mortal     string          `json:"mortal,omitempty"`
	Match      string          `json:"match,omitempty"`
	Chapters   []string        `json:"chapters,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	TraceCount int             `json:"traceCount"`
	TotalCost  float64         `json:"totalCost"`
	Progress   SessionProgress `json:"progress"`
}

// SummarizeSession rolls a session's traces into a summary. Character names
// come from trace metadata; later traces win when several carry them. The
// progress classification here uses tags only, since no transcript is in
// hand; an End turn in the transcript can only make a session more complete,
// and reaching the completion chapter always tags the trace.
func SummarizeSession(session Session, traces []Trace) SessionSummary {
	summary := SessionSummary{
		SessionID:  session.ID,
		CreatedAt:  session.CreatedAt,
		TraceCount: len(traces),
	}

	seenTags := make(map[string]bool)
	seenChapters := make(map[string]bool)
	for _, trace := range traces {
		if trace.UserID != "" {
			summary.UserID = trace.UserID
		}
		summary.TotalCost += trace.TotalCost
		if mortal, ok := trace.Metadata.StringAt("mortal"); ok {
			summary.Mortal = mortal
		}
		if match, ok := trace.Metadata.StringAt("match"); ok {
			summary.Match = match
		}
		for _, tag := range trace.Tags {
			if !seenTags[tag] {
				seenTags[tag] = true
				summary.Tags = append(summary.Tags, tag)
			}
		}
		if chapter, ok := FirstChapterTag(trace.Tags); ok && !seenChapters[chapter] {
			seenChapters[chapter] = true
			summary.Chapters = append(summary.Chapters, chapter)
		}
	}
	sort.Strings(summary.Chapters)
	summary.Progress = Classify(nil, summary.Tags)
	return summary
}

// UserActivity groups one user's sessions and rolls up their trace totals.
type UserActivity struct {
	UserID       string   `json:"userId"`
	SessionIDs   []string `json:"sessionIds"`
	SessionCount int      `json:"sessionCount"`
	TraceCount   int      `json:"traceCount"`
	TotalCost    float64  `json:"totalCost"`
	AvgLatency   float64  `json:"avgLatency"`
	FirstSeen    Time     `json:"firstSeen"`
	LastActive   Time     `json:"lastActive"`
}

// GroupByUser buckets traces by user. Traces without a user or session are
// skipped. Users are ordered most recently active first.
func GroupByUser(sessions []Session, traces []Trace) []UserActivity {
	type userAcc struct {
		UserActivity
		totalLatency float64
		seenSessions map[string]bool
	}

	byUser := make(map[string]*userAcc)
	var order []string
	for _, trace := range traces {
		if trace.UserID == "" || trace.SessionID == "" {
			continue
		}
		acc, ok := byUser[trace.UserID]
		if !ok {
			acc = &userAcc{
				UserActivity: UserActivity{
					UserID:     trace.UserID,
					FirstSeen:  trace.Timestamp,
					LastActive: trace.Timestamp,
				},
				seenSessions: make(map[string]bool),
			}
			byUser[trace.UserID] = acc
			order = append(order, trace.UserID)
		}

		acc.TraceCount++
		acc.TotalCost += trace.TotalCost
		acc.totalLatency += trace.Latency
		if trace.Timestamp.Before(acc.FirstSeen.Time) {
			acc.FirstSeen = trace.Timestamp
		}
		if trace.Timestamp.After(acc.LastActive.Time) {
			acc.LastActive = trace.Timestamp
		}
		if !acc.seenSessions[trace.SessionID] {
			acc.seenSessions[trace.SessionID] = true
			acc.SessionIDs = append(acc.SessionIDs, trace.SessionID)
		}
	}

	out := make([]UserActivity, 0, len(byUser))
	for _, userID := range order {
		acc := byUser[userID]
		acc.SessionCount = len(acc.SessionIDs)
		if acc.TraceCount > 0 {
			acc.AvgLatency = acc.totalLatency / float64(acc.TraceCount)
		}
		out = append(out, acc.UserActivity)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActive.After(out[j].LastActive.Time)
	})
	return out
}

// UsageMetrics are the corpus-wide aggregates shown on the dashboard
// overview.
type UsageMetrics struct {
	TotalTraces   int                `json:"totalTraces"`
	TotalSessions int                `json:"totalSessions"`
	TotalCost     float64            `json:"totalCost"`
	AvgLatency    float64            `json:"avgLatency"`
	UniqueUsers   int                `json:"uniqueUsers"`
	TracesByDay   map[string]int     `json:"tracesByDay"`
	CostByDay     map[string]float64 `json:"costByDay"`
}

// ComputeUsageMetrics aggregates the whole corpus. Daily buckets are keyed
// by the trace's UTC calendar date.
func ComputeUsageMetrics(sessions []Session, traces []Trace) UsageMetrics {
	metrics := UsageMetrics{
		TotalTraces:   len(traces),
		TotalSessions: len(sessions),
		TracesByDay:   make(map[string]int),
		CostByDay:     make(map[string]float64),
	}

	users := make(map[string]bool)
	var totalLatency float64
	for _, trace := range traces {
		metrics.TotalCost += trace.TotalCost
		totalLatency += trace.Latency
		if trace.UserID != "" {
			users[trace.UserID] = true
		}
		if !trace.Timestamp.IsZero() {
			day := trace.Timestamp.UTC().Format("2006-01-02")
			metrics.TracesByDay[day]++
			metrics.CostByDay[day] += trace.TotalCost
		}
	}
	metrics.UniqueUsers = len(users)
	if len(traces) > 0 {
		metrics.AvgLatency = totalLatency / float64(len(traces))
	}
	return metrics
}
