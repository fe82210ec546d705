package insights

import "sort"

// AgentWorkflow is the reserved name of the generic root span every trace
// starts with. It is structural, not an agent identity, and must never
// become an aggregation bucket or a transcript attribution.
const AgentWorkflow = "Agent workflow"

// maxLineageDepth bounds the upward parent walk. Parent pointers come from
// untrusted upstream data and a self-referential chain would otherwise loop
// forever.
const maxLineageDepth = 100

// ObservationsByID indexes observations by ID for lineage resolution.
func ObservationsByID(observations []Observation) map[string]*Observation {
	byID := make(map[string]*Observation, len(observations))
	for i := range observations {
		byID[observations[i].ID] = &observations[i]
	}
	return byID
}

// ResolveCanonicalAgent finds the agent identity an observation belongs to:
// the observation itself if it is a named AGENT, otherwise the nearest AGENT
// ancestor reached by walking parent pointers. The generic root span name
// never qualifies.
//
// A missing parent ends the walk without error; partial captures are normal.
// When no ancestor qualifies, the metadata hint at attributes.graph.node.id
// is consulted before giving up. A false return means the observation is
// unattributed and must be excluded from per-agent aggregates.
func ResolveCanonicalAgent(obs *Observation, byID map[string]*Observation) (string, bool) {
	if obs == nil {
		return "", false
	}
	if obs.Type == ObservationTypeAgent && obs.Name != "" && obs.Name != AgentWorkflow {
		return obs.Name, true
	}

	current := obs
	for depth := 0; depth < maxLineageDepth; depth++ {
		if current.ParentObservationID == "" {
			break
		}
		parent, ok := byID[current.ParentObservationID]
		if !ok {
			break
		}
		if parent.Type == ObservationTypeAgent && parent.Name != "" && parent.Name != AgentWorkflow {
			return parent.Name, true
		}
		current = parent
	}

	if name, ok := obs.Metadata.StringAt("attributes", "graph.node.id"); ok && name != "" {
		return name, true
	}
	return "", false
}

// ObservationNode is an observation with its resolved children, used for
// display-ordered tree rendering.
type ObservationNode struct {
	Observation
	Children []*ObservationNode
}

// BuildObservationTree links a trace's flat observation list into a forest.
// An observation whose parent is absent from the list becomes a root.
// Children are ordered by start time, with unset times sorting first.
func BuildObservationTree(observations []Observation) []*ObservationNode {
	nodes := make(map[string]*ObservationNode, len(observations))
	for i := range observations {
		nodes[observations[i].ID] = &ObservationNode{Observation: observations[i]}
	}

	var roots []*ObservationNode
	for i := range observations {
		node := nodes[observations[i].ID]
		parentID := observations[i].ParentObservationID
		if parentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[parentID]
		if !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	for _, node := range nodes {
		sortNodesByStart(node.Children)
	}
	sortNodesByStart(roots)
	return roots
}

func sortNodesByStart(nodes []*ObservationNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].StartTime.Before(nodes[j].StartTime.Time)
	})
}
