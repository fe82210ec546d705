package insights

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EndAgentName is the sentinel agent whose appearance in a transcript marks
// a finished playthrough.
const EndAgentName = "End"

// completionChapter is the chapter number at which a session counts as
// complete even without an End agent turn.
const completionChapter = 5

var chapterTagPattern = regexp.MustCompile(`^chapter_(\d+)$`)

var chapterNames = map[int]string{
	0: "Introduction",
	1: "Meet the Mortal",
	2: "Meet the Match",
	3: "Compatibility",
	4: "The Story",
	5: "Evaluation",
	6: "End",
}

// SessionProgress describes how far a session got through the story.
type SessionProgress struct {
	Label      string `json:"label"`
	IsComplete bool   `json:"isComplete"`
	MaxChapter int    `json:"maxChapter"`
}

// FirstChapterTag returns the first chapter tag in a trace's tag list, in
// tag order, or false when the trace carries none.
func FirstChapterTag(tags []string) (string, bool) {
	for _, tag := range tags {
		if strings.HasPrefix(tag, "chapter_") {
			return tag, true
		}
	}
	return "", false
}

// MaxChapter returns the highest chapter number among the given tags, or -1
// when no tag matches chapter_<int>.
func MaxChapter(tags []string) int {
	max := -1
	for _, tag := range tags {
		m := chapterTagPattern.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// ChapterName maps a chapter number to its story name, falling back to a
// generic label for numbers outside the known table.
func ChapterName(chapter int) string {
	if name, ok := chapterNames[chapter]; ok {
		return name
	}
	return fmt.Sprintf("Chapter %d", chapter)
}

// Classify derives a session's completion state from its reconstructed
// transcript and the union of its traces' tags. A session is complete when
// the End agent spoke or when any chapter tag reaches the completion
// chapter, whichever signal survived the capture.
func Classify(transcript []ConversationMessage, tags []string) SessionProgress {
	maxChapter := MaxChapter(tags)

	complete := maxChapter >= completionChapter
	if !complete {
		for _, msg := range transcript {
			if msg.Type == MessageTypeAgent && msg.Agent == EndAgentName {
				complete = true
				break
			}
		}
	}

	label := "Just Started"
	switch {
	case complete:
		label = "Complete"
	case maxChapter >= 0:
		label = ChapterName(maxChapter)
	}

	return SessionProgress{
		Label:      label,
		IsComplete: complete,
		MaxChapter: maxChapter,
	}
}
