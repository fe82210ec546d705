package insights

import "sort"

// MessageType distinguishes user turns from agent turns.
type MessageType string

const (
	MessageTypeUser  MessageType = "user"
	MessageTypeAgent MessageType = "agent"
)

// MessageMetadata carries generation-level measurements for an agent turn.
type MessageMetadata struct {
	LatencyMs        int64   `json:"latencyMs"`
	Cost             float64 `json:"cost"`
	Tokens           int     `json:"tokens"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	Model            string  `json:"model,omitempty"`
}

// ConversationMessage is one turn in a reconstructed session transcript.
type ConversationMessage struct {
	Type      MessageType      `json:"type"`
	Timestamp Time             `json:"timestamp"`
	Chapter   string           `json:"chapter,omitempty"`
	TraceID   string           `json:"traceId,omitempty"`
	Agent     string           `json:"agent,omitempty"`
	Content   string           `json:"content"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// BuildTranscript reconstructs one session's conversation from its traces
// and their observations. Each GENERATION observation contributes up to two
// turns: a user turn when its input yields displayable text, timestamped at
// the observation's start, and an agent turn when it carries any output,
// timestamped at its end (start when the end is unset) and attributed to the
// canonical agent of its lineage.
//
// The final transcript is sorted ascending by timestamp across all traces.
// Individual traces arrive newest-first from the ingestion layer and
// interleave within a playthrough, so per-trace order cannot be trusted.
// The sort is stable and unset timestamps order first.
func BuildTranscript(sessionID string, traces []Trace, observationsByTrace map[string][]Observation) []ConversationMessage {
	var transcript []ConversationMessage

	for _, trace := range traces {
		if trace.SessionID != sessionID {
			continue
		}
		observations := observationsByTrace[trace.ID]
		byID := ObservationsByID(observations)
		chapter, _ := FirstChapterTag(trace.Tags)

		for i := range observations {
			obs := &observations[i]
			if obs.Type != ObservationTypeGeneration {
				continue
			}

			if obs.Input != nil {
				if text, ok := ExtractUserInput(obs.Input); ok && text != "" {
					transcript = append(transcript, ConversationMessage{
						Type:      MessageTypeUser,
						Timestamp: obs.StartTime,
						Chapter:   chapter,
						TraceID:   trace.ID,
						Content:   text,
					})
				}
			}

			if obs.Output != nil {
				agent, _ := ResolveCanonicalAgent(obs, byID)
				ts := obs.EndTime
				if ts.IsZero() {
					ts = obs.StartTime
				}
				transcript = append(transcript, ConversationMessage{
					Type:      MessageTypeAgent,
					Timestamp: ts,
					Chapter:   chapter,
					TraceID:   trace.ID,
					Agent:     agent,
					Content:   ExtractAgentOutput(obs.Output),
					Metadata: &MessageMetadata{
						LatencyMs:        obs.LatencyMs(),
						Cost:             obs.CalculatedTotalCost,
						Tokens:           obs.TotalTokens,
						PromptTokens:     obs.PromptTokens,
						CompletionTokens: obs.CompletionTokens,
						Model:            obs.Model,
					},
				})
			}
		}
	}

	sort.SliceStable(transcript, func(i, j int) bool {
		return transcript[i].Timestamp.Before(transcript[j].Timestamp.Time)
	})
	return transcript
}
