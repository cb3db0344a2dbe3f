package mcq

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildPrompt_Basics(t *testing.T) {
	msg := BuildPrompt(PromptInput{
		SourceText: "Photosynthesis converts light energy into chemical energy.",
		Count:      7,
		Difficulty: "Hard",
	})

	for _, want := range []string{
		"Generate exactly 7 multiple choice questions",
		"Difficulty level: Hard\n",
		`"questions": [`,
		`"correct_answer": "A"`,
		"Content:\nPhotosynthesis converts light energy into chemical energy.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(msg, "Do not repeat") {
		t.Error("no exclusion section expected without exclusions")
	}
}

func TestBuildPrompt_DifficultyVerbatim(t *testing.T) {
	msg := BuildPrompt(PromptInput{SourceText: "x", Count: 1, Difficulty: "medium-ish"})
	if !strings.Contains(msg, "Difficulty level: medium-ish\n") {
		t.Error("difficulty must be embedded as given")
	}
}

func TestBuildPrompt_Exclusions(t *testing.T) {
	msg := BuildPrompt(PromptInput{
		SourceText: "content",
		Count:      1,
		Difficulty: "Easy",
		Exclude:    []string{"What is a cell?", "Define osmosis."},
	})
	if !strings.Contains(msg, "Do not repeat or closely paraphrase") {
		t.Fatal("missing exclusion instruction")
	}
	if !strings.Contains(msg, "1. What is a cell?\n2. Define osmosis.") {
		t.Errorf("exclusions not numbered in order:\n%s", msg)
	}
}

func TestBuildPrompt_TruncatesSource(t *testing.T) {
	source := strings.Repeat("é", 50) + "TAIL"
	msg := BuildPrompt(PromptInput{SourceText: source, Count: 1, Difficulty: "Easy", MaxSourceRunes: 50})

	if strings.Contains(msg, "TAIL") {
		t.Error("source should be cut at the rune budget")
	}
	if !strings.Contains(msg, strings.Repeat("é", 50)) {
		t.Error("budget prefix missing")
	}
	if !utf8.ValidString(msg) {
		t.Error("truncation split a UTF-8 sequence")
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	in := PromptInput{SourceText: "abc", Count: 3, Difficulty: "Medium", Exclude: []string{"q"}}
	if BuildPrompt(in) != BuildPrompt(in) {
		t.Error("BuildPrompt is not deterministic")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"日本語テキスト", 3, "日本語"},
		{"", 3, ""},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
