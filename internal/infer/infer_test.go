package infer

import (
	"testing"

	"github.com/dgallion1/structree/internal/signal"
)

func sig(marker int, numbering string, special bool) signal.Signals {
	s := signal.Signals{
		MarkerDepth:         marker,
		HasMarker:           marker > 0,
		IsSpecialSection:    special,
		SpecialSectionLevel: 1,
	}
	if numbering != "" {
		p := signal.ParseNumbering(numbering + " T")
		s.Numbering = p.Numbering
		s.NumberingType = p.Type
		s.NumberingDepth = p.Depth
	}
	return s
}

func mixedContext() *Context {
	return NewContext([]signal.Signals{
		{HasMarker: true, MarkerDepth: 1},
		{HasMarker: true, MarkerDepth: 2},
	})
}

func flatContext() *Context {
	return NewContext([]signal.Signals{
		{HasMarker: true, MarkerDepth: 2},
		{HasMarker: true, MarkerDepth: 2},
	})
}

func TestInferLevelCascade(t *testing.T) {
	ctx := mixedContext()

	tests := []struct {
		name       string
		s          signal.Signals
		level      int
		confidence float64
		rationale  string
	}{
		{"numbering matches marker", sig(2, "1.2", false), 2, 1.0, "numbering_matches_marker"},
		{"numbering overrides marker", sig(1, "1.2", false), 2, 0.9, "numbering_overrides_marker"},
		{"numbering without marker", sig(0, "1.2.3", false), 3, 0.85, "numbering_without_marker"},
		{"special matches marker", sig(1, "", true), 1, 0.9, "special_section_matches_marker"},
		{"special conflicts marker", sig(3, "", true), 1, 0.7, "special_section_conflicts_marker"},
		{"special without marker", sig(0, "", true), 1, 0.75, "special_section_without_marker"},
		{"marker consistent", sig(2, "", false), 2, 0.8, "marker_consistent"},
		{"no signal at all", sig(0, "", false), 1, 0.2, "no_marker_no_numbering"},
	}
	for _, tt := range tests {
		level, confidence, rationale := InferLevel(tt.s, ctx, 3)
		if level != tt.level || confidence != tt.confidence || rationale != tt.rationale {
			t.Errorf("%s: got (L%d, %.2f, %s), want (L%d, %.2f, %s)",
				tt.name, level, confidence, rationale, tt.level, tt.confidence, tt.rationale)
		}
	}
}

func TestInferLevelMarkerClasses(t *testing.T) {
	s := sig(2, "", false)

	if _, confidence, rationale := InferLevel(s, flatContext(), 3); confidence != 0.3 || rationale != "marker_all_same" {
		t.Errorf("flat document: got (%.2f, %s)", confidence, rationale)
	}

	single := NewContext([]signal.Signals{{HasMarker: true, MarkerDepth: 2}})
	if _, confidence, rationale := InferLevel(s, single, 3); confidence != 0.5 || rationale != "marker_inconsistent" {
		t.Errorf("single heading: got (%.2f, %s)", confidence, rationale)
	}
}

func TestInferLevelDepthClamp(t *testing.T) {
	level, _, _ := InferLevel(sig(0, "1.2.3.4.5", false), mixedContext(), 3)
	if level != 3 {
		t.Errorf("deep numbering should clamp to max depth, got L%d", level)
	}
}

func TestMarkerConsistency(t *testing.T) {
	if got := mixedContext().MarkerConsistency(); got != MarkerConsistent {
		t.Errorf("two depths = %s", got)
	}
	if got := flatContext().MarkerConsistency(); got != MarkerAllSame {
		t.Errorf("one depth twice = %s", got)
	}
	none := NewContext(nil)
	if got := none.MarkerConsistency(); got != MarkerInconsistent {
		t.Errorf("no marked headings = %s", got)
	}
}

func TestDominantNumberingFirstSeenTie(t *testing.T) {
	ctx := NewContext([]signal.Signals{
		{NumberingType: signal.NumberingRoman, NumberingDepth: 1},
		{NumberingType: signal.NumberingArabic, NumberingDepth: 1},
	})
	if ctx.DominantNumbering != signal.NumberingRoman {
		t.Errorf("tie should keep first-seen type, got %s", ctx.DominantNumbering)
	}
}

func TestConfidenceStats(t *testing.T) {
	results := []Result{
		{Confidence: 1.0},
		{Confidence: 0.8},
		{Confidence: 0.7},
		{Confidence: 0.3},
	}
	s := ConfidenceStats(results)
	if s.High != 2 || s.Medium != 1 || s.Low != 1 || s.Total != 4 {
		t.Errorf("stats = %+v", s)
	}
}

func TestNeedsEscalationLowRatio(t *testing.T) {
	all := []signal.Signals{{MarkerDepth: 1}, {MarkerDepth: 2}, {MarkerDepth: 1}}
	strong := []Result{{Level: 1, Confidence: 0.9}, {Level: 2, Confidence: 0.9}, {Level: 1, Confidence: 0.9}}
	if NeedsEscalation(all, strong) {
		t.Error("strong results should not escalate")
	}

	weak := []Result{{Level: 1, Confidence: 0.9}, {Level: 2, Confidence: 0.3}, {Level: 1, Confidence: 0.3}}
	if !NeedsEscalation(all, weak) {
		t.Error("two thirds low confidence should escalate")
	}
}

func TestNeedsEscalationFlatUnnumbered(t *testing.T) {
	all := []signal.Signals{{MarkerDepth: 2}, {MarkerDepth: 2}, {MarkerDepth: 2}}
	// High enough confidence and no level jumps, but flat and unnumbered.
	results := []Result{{Level: 2, Confidence: 0.9}, {Level: 2, Confidence: 0.9}, {Level: 2, Confidence: 0.9}}
	if !NeedsEscalation(all, results) {
		t.Error("flat unnumbered marker structure should escalate")
	}

	numbered := []signal.Signals{{MarkerDepth: 2, NumberingDepth: 1}, {MarkerDepth: 2}, {MarkerDepth: 2}}
	if NeedsEscalation(numbered, results) {
		t.Error("any numbering suppresses the flat-structure trigger")
	}
}

func TestNeedsEscalationLevelJump(t *testing.T) {
	all := []signal.Signals{{MarkerDepth: 1}, {MarkerDepth: 3}}
	results := []Result{{Level: 1, Confidence: 0.9}, {Level: 3, Confidence: 0.9}}
	if !NeedsEscalation(all, results) {
		t.Error("downward jump of more than one level should escalate")
	}
}

func TestSelectMode(t *testing.T) {
	mostlyLow := []Result{{Confidence: 0.3}, {Confidence: 0.3}, {Confidence: 0.9}}
	if got := SelectMode(mostlyLow); got != ModeFull {
		t.Errorf("two thirds low = %s, want full", got)
	}

	fewLow := []Result{{Confidence: 0.3}, {Confidence: 0.9}, {Confidence: 0.9}}
	if got := SelectMode(fewLow); got != ModePartial {
		t.Errorf("one third low = %s, want partial", got)
	}
}

func TestInferAllSource(t *testing.T) {
	all := []signal.Signals{sig(1, "", false), sig(2, "", false)}
	all[0].Index = 0
	all[1].Index = 1
	results := InferAll(all, NewContext(all), 3)
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Source != SourceRule {
			t.Errorf("result %d source = %s", i, r.Source)
		}
		if r.Index != i {
			t.Errorf("result %d index = %d", i, r.Index)
		}
	}
}
