package insights

import "testing"

func TestClassifyEndAgentCompletes(t *testing.T) {
	transcript := []ConversationMessage{
		{Type: MessageTypeAgent, Agent: "Introduction", Content: "Welcome."},
		{Type: MessageTypeAgent, Agent: EndAgentName, Content: "Farewell."},
	}

	got := Classify(transcript, []string{"chapter_0"})
	if !got.IsComplete {
		t.Error("End agent message should mark the session complete")
	}
	if got.MaxChapter != 0 {
		t.Errorf("maxChapter = %d, want 0", got.MaxChapter)
	}
	if got.Label != "Complete" {
		t.Errorf("label = %q, want Complete", got.Label)
	}
}

func TestClassifyLateChapterCompletes(t *testing.T) {
	got := Classify(nil, []string{"chapter_5"})
	if !got.IsComplete || got.Label != "Complete" || got.MaxChapter != 5 {
		t.Errorf("got %+v, want complete at chapter 5", got)
	}
}

func TestClassifyUserEndMessageDoesNotComplete(t *testing.T) {
	transcript := []ConversationMessage{
		{Type: MessageTypeUser, Agent: EndAgentName, Content: "spoofed"},
	}
	if got := Classify(transcript, nil); got.IsComplete {
		t.Error("only agent turns can complete a session")
	}
}

func TestClassifyInProgressLabels(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want SessionProgress
	}{
		{"no tags", nil, SessionProgress{Label: "Just Started", MaxChapter: -1}},
		{"chapter 0", []string{"chapter_0"}, SessionProgress{Label: "Introduction", MaxChapter: 0}},
		{"chapter 3", []string{"chapter_1", "chapter_3"}, SessionProgress{Label: "Compatibility", MaxChapter: 3}},
		{"unmapped chapter tolerated", []string{"chapter_4", "weird_tag"}, SessionProgress{Label: "The Story", MaxChapter: 4}},
		{"malformed chapter ignored", []string{"chapter_x", "chapter_"}, SessionProgress{Label: "Just Started", MaxChapter: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(nil, tt.tags)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMaxChapter(t *testing.T) {
	tests := []struct {
		tags []string
		want int
	}{
		{nil, -1},
		{[]string{"other"}, -1},
		{[]string{"chapter_2"}, 2},
		{[]string{"chapter_2", "chapter_6", "chapter_1"}, 6},
		{[]string{"chapter_12"}, 12},
		{[]string{"chapter_abc"}, -1},
	}
	for _, tt := range tests {
		if got := MaxChapter(tt.tags); got != tt.want {
			t.Errorf("MaxChapter(%v) = %d, want %d", tt.tags, got, tt.want)
		}
	}
}

func TestChapterName(t *testing.T) {
	tests := []struct {
		chapter int
		want    string
	}{
		{0, "Introduction"},
		{1, "Meet the Mortal"},
		{2, "Meet the Match"},
		{3, "Compatibility"},
		{4, "The Story"},
		{5, "Evaluation"},
		{6, "End"},
		{9, "Chapter 9"},
	}
	for _, tt := range tests {
		if got := ChapterName(tt.chapter); got != tt.want {
			t.Errorf("ChapterName(%d) = %q, want %q", tt.chapter, got, tt.want)
		}
	}
}

func TestFirstChapterTag(t *testing.T) {
	if tag, ok := FirstChapterTag([]string{"env:prod", "chapter_3", "chapter_4"}); !ok || tag != "chapter_3" {
		t.Errorf("got %q, %v; want chapter_3, true", tag, ok)
	}
	if _, ok := FirstChapterTag([]string{"env:prod"}); ok {
		t.Error("no chapter tag should return false")
	}
}
