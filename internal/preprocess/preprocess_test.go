package preprocess

import (
	"strings"
	"testing"
)

func TestMarkCodeLinesFenceKinds(t *testing.T) {
	lines := []string{
		"text",
		"```go",
		"# not a heading",
		"~~~ still inside backtick fence",
		"```",
		"after",
	}
	code := MarkCodeLines(lines)

	for _, i := range []int{1, 2, 3, 4} {
		if !code[i] {
			t.Errorf("line %d should be masked", i)
		}
	}
	if code[0] || code[5] {
		t.Error("lines outside the fence should not be masked")
	}
}

func TestMarkCodeLinesUnterminated(t *testing.T) {
	lines := []string{"# Title", "```", "# inside", "still inside"}
	code := MarkCodeLines(lines)

	if code[0] {
		t.Error("heading before fence should not be masked")
	}
	for _, i := range []int{1, 2, 3} {
		if !code[i] {
			t.Errorf("line %d should be masked to EOF", i)
		}
	}
}

func TestMarkCodeLinesTildeFence(t *testing.T) {
	lines := []string{"~~~", "code", "~~~", "out"}
	code := MarkCodeLines(lines)
	if !code[0] || !code[1] || !code[2] {
		t.Error("tilde fence should mask its region")
	}
	if code[3] {
		t.Error("line after close should not be masked")
	}
}

func TestCleanHeadingText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Introduction ##", "Introduction"},
		{"**Bold Title**", "Bold Title"},
		{"__Also Bold__", "Also Bold"},
		{"*Emphasis*", "Emphasis"},
		{"***Nested* Emphasis**", "Nested Emphasis"},
		{"[Linked Title](https://example.com)", "Linked Title"},
		{"Spaced    Out   Title", "Spaced Out Title"},
		{"Trailing Period.", "Trailing Period"},
		{"中文标题。", "中文标题"},
		{"Colon Heading:", "Colon Heading"},
	}
	for _, tt := range tests {
		if got := CleanHeadingText(tt.in); got != tt.want {
			t.Errorf("CleanHeadingText(%q) = %q, want %q", tt.in, tt.want, got)
		}
	}
}

func TestExtractCandidatesMarked(t *testing.T) {
	lines := strings.Split("# Title\n\nbody\n\n## Section One\n\nmore body", "\n")
	candidates, _ := ExtractCandidates(lines)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].MarkerDepth != 1 || candidates[0].RawText != "Title" {
		t.Errorf("first candidate = %+v", candidates[0])
	}
	if candidates[1].MarkerDepth != 2 || candidates[1].RawText != "Section One" {
		t.Errorf("second candidate = %+v", candidates[1])
	}
	if !candidates[0].HasMarker || !candidates[1].HasMarker {
		t.Error("marked candidates should have HasMarker set")
	}
}

func TestExtractCandidatesLooseMarker(t *testing.T) {
	candidates, _ := ExtractCandidates([]string{"##Tight Heading"})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].MarkerDepth != 2 || candidates[0].RawText != "Tight Heading" {
		t.Errorf("candidate = %+v", candidates[0])
	}
}

func TestExtractCandidatesEmptyAfterCleanDropped(t *testing.T) {
	candidates, _ := ExtractCandidates([]string{"# .", "body"})
	if len(candidates) != 0 {
		t.Errorf("decorative-only heading should be dropped, got %d candidates", len(candidates))
	}
}

func TestExtractCandidatesSkipsCode(t *testing.T) {
	lines := []string{"```", "# commented heading", "```", "# Real Heading"}
	candidates, code := ExtractCandidates(lines)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].LineIndex != 3 {
		t.Errorf("candidate line = %d, want 3", candidates[0].LineIndex)
	}
	if len(code) != 3 {
		t.Errorf("masked %d lines, want 3", len(code))
	}
}

func TestIsUnmarkedHeading(t *testing.T) {
	tests := []struct {
		name             string
		line, prev, next string
		want             bool
	}{
		{"numbered isolated", "1.2 Design Goals", "", "", true},
		{"special section", "Introduction", "", "", true},
		{"chinese chapter", "第一章 绪论", "", "", true},
		{"not isolated", "1.2 Design Goals", "previous text", "", false},
		{"sentence punctuation", "This ends with a period.", "", "", false},
		{"contains comma", "First, second", "", "", false},
		{"too long", strings.Repeat("x", 30) + " 1. " + strings.Repeat("y", 60), "", "", false},
		{"plain prose", "just some words here", "", "", false},
	}
	for _, tt := range tests {
		if got := IsUnmarkedHeading(tt.line, tt.prev, tt.next); got != tt.want {
			t.Errorf("%s: IsUnmarkedHeading(%q) = %v, want %v", tt.name, tt.line, got, tt.want)
		}
	}
}

func TestExtractCandidatesUnmarked(t *testing.T) {
	lines := []string{"intro text", "", "2. Methods", "", "body"}
	candidates, _ := ExtractCandidates(lines)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.HasMarker || c.MarkerDepth != 0 {
		t.Errorf("unmarked candidate should have no marker: %+v", c)
	}
	if c.RawText != "2. Methods" {
		t.Errorf("RawText = %q", c.RawText)
	}
}
