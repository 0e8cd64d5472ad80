package advise

import (
	"strings"
	"testing"

	"github.com/dgallion1/structree/internal/anthropic"
	"github.com/dgallion1/structree/internal/infer"
)

func TestMergeAdoptsLowConfidence(t *testing.T) {
	results := []infer.Result{
		{Index: 0, Level: 1, Confidence: 0.3, Source: infer.SourceRule, Rationale: "marker_all_same"},
	}
	merged := Merge(results, []Suggestion{{Index: 0, Level: 2, Reasoning: "subsection of previous"}}, infer.ModePartial, 3)

	got := merged[0]
	if got.Level != 2 {
		t.Errorf("level = %d, want 2", got.Level)
	}
	if got.Confidence != infer.AdviserConfidence {
		t.Errorf("confidence = %.2f, want %.2f", got.Confidence, infer.AdviserConfidence)
	}
	if got.Source != infer.SourceAdviserPartial {
		t.Errorf("source = %s", got.Source)
	}
	if got.Rationale != "adviser:subsection of previous" {
		t.Errorf("rationale = %q", got.Rationale)
	}

	if results[0].Level != 1 {
		t.Error("input slice must not be mutated")
	}
}

func TestMergeKeepsConfidentRule(t *testing.T) {
	results := []infer.Result{
		{Index: 0, Level: 1, Confidence: 1.0, Source: infer.SourceRule, Rationale: "numbering_matches_marker"},
	}
	merged := Merge(results, []Suggestion{{Index: 0, Level: 3}}, infer.ModeFull, 3)

	got := merged[0]
	if got.Level != 1 || got.Source != infer.SourceRule {
		t.Errorf("confident rule result should be kept: %+v", got)
	}
	if !strings.Contains(got.Rationale, "adviser suggested L3, overruled") {
		t.Errorf("rationale should record the overruled suggestion: %q", got.Rationale)
	}
}

func TestMergeAgreementUntouched(t *testing.T) {
	results := []infer.Result{
		{Index: 0, Level: 2, Confidence: 0.5, Source: infer.SourceRule, Rationale: "marker_inconsistent"},
	}
	merged := Merge(results, []Suggestion{{Index: 0, Level: 2}}, infer.ModeFull, 3)

	if merged[0] != results[0] {
		t.Errorf("agreeing suggestion should leave the result untouched: %+v", merged[0])
	}
}

func TestMergeClampsAndBoundsChecks(t *testing.T) {
	results := []infer.Result{
		{Index: 0, Level: 1, Confidence: 0.3, Source: infer.SourceRule},
	}
	merged := Merge(results, []Suggestion{
		{Index: 0, Level: 9},
		{Index: 5, Level: 2}, // out of range, ignored
	}, infer.ModeFull, 3)

	if merged[0].Level != 3 {
		t.Errorf("suggested level should clamp to max depth, got %d", merged[0].Level)
	}
}

func TestMergeFullModeSource(t *testing.T) {
	results := []infer.Result{{Index: 0, Level: 1, Confidence: 0.2, Source: infer.SourceRule}}
	merged := Merge(results, []Suggestion{{Index: 0, Level: 2}}, infer.ModeFull, 3)
	if merged[0].Source != infer.SourceAdviserFull {
		t.Errorf("source = %s, want %s", merged[0].Source, infer.SourceAdviserFull)
	}
	if merged[0].Rationale != "adviser:corrected" {
		t.Errorf("rationale = %q", merged[0].Rationale)
	}
}

func TestParseSuggestionsEnvelope(t *testing.T) {
	text := `{"results":[{"index":0,"level":2,"reasoning":"nested"},{"index":1,"level":1}]}`
	got, err := ParseSuggestions(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Level != 2 || got[1].Index != 1 {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestParseSuggestionsBareArray(t *testing.T) {
	got, err := ParseSuggestions(`[{"index":0,"level":1}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestParseSuggestionsFencedBlock(t *testing.T) {
	raw := "```json\n{\"results\":[{\"index\":0,\"level\":2}]}\n```"
	got, err := ParseSuggestions(anthropic.StripCodeBlock(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Level != 2 {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestParseSuggestionsRejectsUseless(t *testing.T) {
	if _, err := ParseSuggestions(`{"results":[{"index":0,"level":0}]}`); err == nil {
		t.Error("zero-level rows only should be an error")
	}
	if _, err := ParseSuggestions("not json at all"); err == nil {
		t.Error("non-JSON should be an error")
	}
}

func TestBuildPromptModes(t *testing.T) {
	req := Request{
		DocID:    "doc1",
		MaxDepth: 3,
		Mode:     infer.ModeFull,
		Headings: []HeadingHint{
			{Index: 0, Heading: "Overview", Level: 1, Confidence: 0.9},
			{Index: 1, Heading: "Details", Level: 1, Confidence: 0.3, Uncertain: true},
		},
	}
	full := BuildPrompt(req)
	if !strings.Contains(full, "Overview") || !strings.Contains(full, "Details") {
		t.Error("full prompt should include every heading")
	}

	req.Mode = infer.ModePartial
	partial := BuildPrompt(req)
	if !strings.Contains(partial, "Details") {
		t.Error("partial prompt should include the uncertain heading")
	}
	if !strings.Contains(partial, "[?]") {
		t.Error("partial prompt should mark uncertain headings")
	}
}
