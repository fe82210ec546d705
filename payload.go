package insights

import (
	"encoding/json"
	"strings"
)

// Generation input and output payloads arrive in whatever shape the upstream
// SDK happened to record: plain strings, OpenAI chat completions, OpenAI
// Responses API envelopes, role-tagged message arrays, or ad-hoc objects.
// Extraction runs each payload through an ordered list of shape matchers and
// takes the first match. Unrecognized output degrades to a stringified value
// rather than failing the whole transcript.

// UserActionPlaceholder stands in for structured user input that carries no
// displayable text.
const UserActionPlaceholder = "[User action]"

const undisplayableOutput = "[Unable to display output]"

type inputMatcher func(input JSON) (string, bool)

var inputMatchers = []inputMatcher{
	matchRoleTaggedUserMessage,
	matchStringInput,
	matchContentField,
	matchDirectFields,
}

// ExtractUserInput pulls displayable user text out of a generation's input
// payload. A false return means the observation carries no user turn, which
// is normal for agent-initiated steps.
func ExtractUserInput(input JSON) (string, bool) {
	if input == nil {
		return "", false
	}
	for _, match := range inputMatchers {
		if text, ok := match(input); ok {
			return text, true
		}
	}
	return "", false
}

// matchRoleTaggedUserMessage handles message arrays, taking the last entry
// with role "user".
func matchRoleTaggedUserMessage(input JSON) (string, bool) {
	items, ok := input.([]any)
	if !ok {
		return "", false
	}
	var last map[string]any
	for _, item := range items {
		msg, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if role, _ := msg["role"].(string); role == "user" {
			last = msg
		}
	}
	if last == nil {
		return "", false
	}
	return renderMessageContent(last["content"])
}

// renderMessageContent turns a user message's content field into text.
func renderMessageContent(content any) (string, bool) {
	switch c := content.(type) {
	case string:
		return c, true
	case []any:
		var texts []string
		for _, item := range c {
			part, ok := item.(map[string]any)
			if !ok {
				continue
			}
			text, hasText := part["text"].(string)
			partType, _ := part["type"].(string)
			if !hasText && partType != "text" {
				continue
			}
			if text == "" {
				text, _ = part["value"].(string)
			}
			texts = append(texts, text)
		}
		if len(texts) > 0 {
			return strings.Join(texts, " "), true
		}
		return "", false
	case map[string]any:
		if text, ok := c["text"].(string); ok && text != "" {
			return text, true
		}
		if value, ok := c["value"].(string); ok && value != "" {
			return value, true
		}
		if action, ok := c["action"].(string); ok && action != "" {
			return action, true
		}
		if choice, ok := c["choice"].(string); ok && choice != "" {
			return "Choice: " + choice, true
		}
		return UserActionPlaceholder, true
	}
	return "", false
}

func matchStringInput(input JSON) (string, bool) {
	s, ok := input.(string)
	return s, ok
}

// matchContentField handles {content: ...} objects. Non-string content
// collapses to the user-action placeholder rather than a raw dump.
func matchContentField(input JSON) (string, bool) {
	obj, ok := input.(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := obj["content"]
	if !ok || content == nil {
		return "", false
	}
	if s, ok := content.(string); ok {
		return s, true
	}
	return UserActionPlaceholder, true
}

func matchDirectFields(input JSON) (string, bool) {
	obj, ok := input.(map[string]any)
	if !ok {
		return "", false
	}
	if text, ok := obj["text"].(string); ok && text != "" {
		return text, true
	}
	if action, ok := obj["action"].(string); ok && action != "" {
		return action, true
	}
	if choice, ok := obj["choice"].(string); ok && choice != "" {
		return "Choice: " + choice, true
	}
	return "", false
}

type outputMatcher func(output JSON) (string, bool)

var outputMatchers = []outputMatcher{
	matchStringOutput,
	matchTextField,
	matchContentString,
	matchChatCompletion,
	matchResponsesEnvelope,
	matchMessageArray,
	matchNestedMessage,
	matchEmptyObject,
}

// ExtractAgentOutput normalizes a generation's output payload to text.
// It never fails: an unrecognized shape is stringified as a last resort.
func ExtractAgentOutput(output JSON) string {
	if output == nil {
		return ""
	}
	for _, match := range outputMatchers {
		if text, ok := match(output); ok {
			return text
		}
	}
	return stringifyFallback(output)
}

func matchStringOutput(output JSON) (string, bool) {
	s, ok := output.(string)
	return s, ok
}

func matchTextField(output JSON) (string, bool) {
	obj, ok := output.(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := obj["text"].(string)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

func matchContentString(output JSON) (string, bool) {
	obj, ok := output.(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := obj["content"].(string)
	if !ok || content == "" {
		return "", false
	}
	return content, true
}

// matchChatCompletion handles {choices: [{message: {content}}]}.
func matchChatCompletion(output JSON) (string, bool) {
	obj, ok := output.(map[string]any)
	if !ok {
		return "", false
	}
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	if !ok || content == "" {
		return "", false
	}
	return content, true
}

// matchResponsesEnvelope handles {output: [{content: [{text}]}]}, joining
// every text part across all output items with blank lines. Items without a
// content array (reasoning items) are skipped.
func matchResponsesEnvelope(output JSON) (string, bool) {
	obj, ok := output.(map[string]any)
	if !ok {
		return "", false
	}
	items, ok := obj["output"].([]any)
	if !ok {
		return "", false
	}
	var texts []string
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		parts, ok := entry["content"].([]any)
		if !ok {
			continue
		}
		for _, p := range parts {
			part, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := part["text"].(string); ok && text != "" {
				texts = append(texts, text)
			}
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, "\n\n"), true
}

// matchMessageArray handles role-tagged message arrays: an assistant message
// wins, then nested content-part texts, then any stringified content fields.
func matchMessageArray(output JSON) (string, bool) {
	items, ok := output.([]any)
	if !ok {
		return "", false
	}

	for _, item := range items {
		msg, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if role, _ := msg["role"].(string); role != "assistant" {
			continue
		}
		content, ok := msg["content"]
		if !ok || content == nil {
			continue
		}
		if s, ok := content.(string); ok {
			return s, true
		}
		return stringifyFallback(content), true
	}

	var texts []string
	for _, item := range items {
		msg, ok := item.(map[string]any)
		if !ok {
			continue
		}
		parts, ok := msg["content"].([]any)
		if !ok {
			continue
		}
		for _, p := range parts {
			part, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := part["text"].(string); ok && text != "" {
				texts = append(texts, text)
			}
		}
	}
	if len(texts) > 0 {
		return strings.Join(texts, "\n\n"), true
	}

	var contents []string
	for _, item := range items {
		msg, ok := item.(map[string]any)
		if !ok {
			continue
		}
		content, ok := msg["content"]
		if !ok || content == nil {
			continue
		}
		if s, ok := content.(string); ok {
			contents = append(contents, s)
		} else {
			contents = append(contents, stringifyCompact(content))
		}
	}
	if len(contents) > 0 {
		return strings.Join(contents, "\n\n"), true
	}
	return "", false
}

// matchNestedMessage handles {message: {content}}.
func matchNestedMessage(output JSON) (string, bool) {
	obj, ok := output.(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := obj["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"]
	if !ok || content == nil {
		return "", false
	}
	if s, ok := content.(string); ok {
		return s, true
	}
	return stringifyFallback(content), true
}

func matchEmptyObject(output JSON) (string, bool) {
	obj, ok := output.(map[string]any)
	if !ok {
		return "", false
	}
	if len(obj) == 0 {
		return "", true
	}
	return "", false
}

func stringifyFallback(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return undisplayableOutput
	}
	return string(data)
}

func stringifyCompact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return undisplayableOutput
	}
	return string(data)
}

