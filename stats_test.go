package insights

import (
	"math"
	"testing"
	"time"
)

func TestComputeAgentStatsAttributesGeneration(t *testing.T) {
	obs := []Observation{
		{ID: "a1", Type: ObservationTypeAgent, Name: "Mortal"},
		{ID: "g1", Type: ObservationTypeGeneration, ParentObservationID: "a1",
			CalculatedTotalCost: 0.01, TotalTokens: 100},
	}

	stats := ComputeAgentStats(obs)
	if len(stats) != 1 {
		t.Fatalf("got %d agents, want 1", len(stats))
	}

	s := stats[0]
	if s.Name != "Mortal" || s.Executions != 1 {
		t.Errorf("got %s/%d executions, want Mortal/1", s.Name, s.Executions)
	}
	if s.TotalCost != 0.01 || s.TotalTokens != 100 {
		t.Errorf("got cost %v tokens %d, want 0.01/100", s.TotalCost, s.TotalTokens)
	}
	if s.SuccessRatePct != 100 {
		t.Errorf("got success rate %v, want 100", s.SuccessRatePct)
	}
}

func TestComputeAgentStatsGenerationNeverCreatesBucket(t *testing.T) {
	// The generation's lineage resolves to "Ghost" via metadata, but no
	// AGENT observation by that name exists.
	obs := []Observation{
		{ID: "g1", Type: ObservationTypeGeneration,
			Metadata:            Metadata{"attributes": map[string]any{"graph.node.id": "Ghost"}},
			CalculatedTotalCost: 0.5, TotalTokens: 50},
	}

	stats := ComputeAgentStats(obs)
	if len(stats) != 0 {
		t.Errorf("got %d agents, want 0: a generation alone must not create a bucket", len(stats))
	}
}

func TestComputeAgentStatsGenericRootExcluded(t *testing.T) {
	obs := []Observation{
		{ID: "root", Type: ObservationTypeAgent, Name: AgentWorkflow},
		{ID: "a1", Type: ObservationTypeAgent, Name: "Match"},
	}

	stats := ComputeAgentStats(obs)
	if len(stats) != 1 || stats[0].Name != "Match" {
		t.Fatalf("got %+v, want only Match", stats)
	}
}

func TestComputeAgentStatsLatencyAndErrors(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	obs := []Observation{
		{ID: "a1", Type: ObservationTypeAgent, Name: "Mortal",
			StartTime: TimeOf(base), EndTime: TimeOf(base.Add(time.Second))},
		{ID: "a2", Type: ObservationTypeAgent, Name: "Mortal",
			StartTime: TimeOf(base), EndTime: TimeOf(base.Add(3 * time.Second)),
			Level: ObservationLevelError},
		{ID: "a3", Type: ObservationTypeAgent, Name: "Mortal"},
	}

	stats := ComputeAgentStats(obs)
	if len(stats) != 1 {
		t.Fatalf("got %d agents, want 1", len(stats))
	}

	s := stats[0]
	if s.Executions != 3 {
		t.Errorf("executions = %d, want 3", s.Executions)
	}
	if s.TotalLatencyMs != 4000 {
		t.Errorf("totalLatencyMs = %d, want 4000 (missing end time contributes 0)", s.TotalLatencyMs)
	}
	if s.Errors != 1 {
		t.Errorf("errors = %d, want 1", s.Errors)
	}
	if math.Abs(s.AvgLatencyMs-4000.0/3.0) > 1e-9 {
		t.Errorf("avgLatencyMs = %v", s.AvgLatencyMs)
	}
	if math.Abs(s.SuccessRatePct-200.0/3.0) > 1e-9 {
		t.Errorf("successRatePct = %v", s.SuccessRatePct)
	}
}

func TestComputeAgentStatsOrdering(t *testing.T) {
	obs := []Observation{
		{ID: "1", Type: ObservationTypeAgent, Name: "Zeta"},
		{ID: "2", Type: ObservationTypeAgent, Name: "Alpha"},
		{ID: "3", Type: ObservationTypeAgent, Name: "Beta"},
		{ID: "4", Type: ObservationTypeAgent, Name: "Beta"},
	}

	stats := ComputeAgentStats(obs)
	got := make([]string, len(stats))
	for i, s := range stats {
		got[i] = s.Name
	}

	want := []string{"Beta", "Alpha", "Zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestComputeAgentStatsCostConservation(t *testing.T) {
	obs := []Observation{
		{ID: "a1", Type: ObservationTypeAgent, Name: "Mortal"},
		{ID: "a2", Type: ObservationTypeAgent, Name: "Match"},
		{ID: "g1", Type: ObservationTypeGeneration, ParentObservationID: "a1", CalculatedTotalCost: 0.01},
		{ID: "g2", Type: ObservationTypeGeneration, ParentObservationID: "a2", CalculatedTotalCost: 0.02},
		// Unresolvable: excluded from every bucket.
		{ID: "g3", Type: ObservationTypeGeneration, ParentObservationID: "missing", CalculatedTotalCost: 0.04},
	}

	stats := ComputeAgentStats(obs)

	var attributed float64
	for _, s := range stats {
		attributed += s.TotalCost
	}
	if math.Abs(attributed-0.03) > 1e-9 {
		t.Errorf("attributed cost = %v, want 0.03", attributed)
	}

	var total float64
	for _, o := range obs {
		if o.Type == ObservationTypeGeneration {
			total += o.CalculatedTotalCost
		}
	}
	if attributed > total {
		t.Errorf("attributed cost %v exceeds generation total %v", attributed, total)
	}
}

func TestComputeAgentStatsEmpty(t *testing.T) {
	if stats := ComputeAgentStats(nil); len(stats) != 0 {
		t.Errorf("got %d agents from empty input", len(stats))
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		agent string
		want  AgentCategory
	}{
		{"Mortal", CategoryContent},
		{"DisplayChoices", CategoryUI},
		{"HasEnded", CategoryRouting},
		{"End", CategoryControl},
		{"SomethingNew", CategoryOther},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.agent); got != tt.want {
			t.Errorf("CategoryOf(%s) = %s, want %s", tt.agent, got, tt.want)
		}
	}
}
