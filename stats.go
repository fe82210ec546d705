package insights

import "sort"

// AgentStats holds the derived per-agent performance statistics. Values are
// recomputed from the raw observations on every query, never cached.
type AgentStats struct {
	Name           string  `json:"name"`
	Executions     int     `json:"executions"`
	TotalLatencyMs int64   `json:"totalLatencyMs"`
	TotalCost      float64 `json:"totalCost"`
	TotalTokens    int     `json:"totalTokens"`
	Errors         int     `json:"errors"`
	AvgLatencyMs   float64 `json:"avgLatencyMs"`
	SuccessRatePct float64 `json:"successRatePct"`
}

// ComputeAgentStats aggregates observations into per-agent statistics.
//
// Pass 1 walks AGENT observations: each named one (the generic root span
// excluded) creates or updates its bucket with an execution count, latency,
// and error tally. Pass 2 walks GENERATION observations and attributes cost
// and tokens to the bucket of their canonical agent. A generation whose
// agent has no bucket from pass 1 is dropped rather than given a bucket of
// its own, so cost is attributed to at most one real agent execution.
//
// Results are ordered by executions descending, name ascending on ties.
func ComputeAgentStats(observations []Observation) []AgentStats {
	byID := ObservationsByID(observations)
	buckets := make(map[string]*AgentStats)

	for i := range observations {
		obs := &observations[i]
		if obs.Type != ObservationTypeAgent || obs.Name == "" || obs.Name == AgentWorkflow {
			continue
		}
		bucket, ok := buckets[obs.Name]
		if !ok {
			bucket = &AgentStats{Name: obs.Name}
			buckets[obs.Name] = bucket
		}
		bucket.Executions++
		bucket.TotalLatencyMs += obs.LatencyMs()
		if obs.IsError() {
			bucket.Errors++
		}
	}

	for i := range observations {
		obs := &observations[i]
		if obs.Type != ObservationTypeGeneration {
			continue
		}
		name, ok := ResolveCanonicalAgent(obs, byID)
		if !ok {
			continue
		}
		bucket, ok := buckets[name]
		if !ok {
			continue
		}
		bucket.TotalCost += obs.CalculatedTotalCost
		bucket.TotalTokens += obs.TotalTokens
	}

	out := make([]AgentStats, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.Executions > 0 {
			bucket.AvgLatencyMs = float64(bucket.TotalLatencyMs) / float64(bucket.Executions)
			bucket.SuccessRatePct = float64(bucket.Executions-bucket.Errors) / float64(bucket.Executions) * 100
		}
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Executions != out[j].Executions {
			return out[i].Executions > out[j].Executions
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AgentCategory classifies what role an agent plays in the workflow.
type AgentCategory string

const (
	CategoryContent AgentCategory = "content"
	CategoryUI      AgentCategory = "ui"
	CategoryRouting AgentCategory = "routing"
	CategoryControl AgentCategory = "control"
	CategoryOther   AgentCategory = "other"
)

var agentCategories = map[string]AgentCategory{
	"HasEnded":                 CategoryRouting,
	"StartCupidGame":           CategoryControl,
	"Introduction":             CategoryContent,
	"DisplayMortal":            CategoryUI,
	"Mortal":                   CategoryContent,
	"DisplayMatch":             CategoryUI,
	"Match":                    CategoryContent,
	"DisplayCompatibilityCard": CategoryUI,
	"CompatibilityAnalysis":    CategoryContent,
	"DisplayChoices":           CategoryUI,
	"CupidEvaluation":          CategoryContent,
	"End":                      CategoryControl,
}

// CategoryOf returns the workflow category for a known agent name, or
// CategoryOther for agents outside the known set.
func CategoryOf(agentName string) AgentCategory {
	if cat, ok := agentCategories[agentName]; ok {
		return cat
	}
	return CategoryOther
}
