// Package infer assigns an outline level and a confidence to every heading
// via an ordered, first-match-wins rule cascade over per-heading signals and
// document-wide context, and decides when the result set is weak enough to
// escalate to the external structural adviser.
package infer

import "github.com/dgallion1/structree/internal/signal"

// Source records which decision path produced an inference result.
type Source string

const (
	SourceRule           Source = "rule"
	SourceAdviserFull    Source = "adviser-full"
	SourceAdviserPartial Source = "adviser-partial"
)

// Result is one heading's inferred level with the engine's self-assessed
// certainty and a short rationale. Mutable only via the escalation merge.
type Result struct {
	Index      int     `json:"index"`
	Level      int     `json:"level"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
	Rationale  string  `json:"rationale"`
}

// rule is one entry of the cascade: a predicate that either claims the
// heading and yields (level, confidence, rationale), or passes.
type rule struct {
	name  string
	apply func(s signal.Signals, ctx *Context, maxDepth int) (int, float64, string, bool)
}

func clampLevel(level, maxDepth int) int {
	if level < 1 {
		return 1
	}
	if level > maxDepth {
		return maxDepth
	}
	return level
}

// cascade is evaluated top to bottom per heading; exactly one rule fires and
// rules are never combined.
var cascade = []rule{
	{
		name: "numbering_matches_marker",
		apply: func(s signal.Signals, _ *Context, maxDepth int) (int, float64, string, bool) {
			if s.NumberingDepth == 0 || !s.HasMarker {
				return 0, 0, "", false
			}
			level := clampLevel(s.NumberingDepth, maxDepth)
			if s.MarkerDepth != level {
				return 0, 0, "", false
			}
			return level, 1.0, "numbering_matches_marker", true
		},
	},
	{
		name: "numbering_overrides_marker",
		apply: func(s signal.Signals, _ *Context, maxDepth int) (int, float64, string, bool) {
			if s.NumberingDepth == 0 || !s.HasMarker {
				return 0, 0, "", false
			}
			return clampLevel(s.NumberingDepth, maxDepth), 0.9, "numbering_overrides_marker", true
		},
	},
	{
		name: "numbering_without_marker",
		apply: func(s signal.Signals, _ *Context, maxDepth int) (int, float64, string, bool) {
			if s.NumberingDepth == 0 {
				return 0, 0, "", false
			}
			return clampLevel(s.NumberingDepth, maxDepth), 0.85, "numbering_without_marker", true
		},
	},
	{
		name: "special_section",
		apply: func(s signal.Signals, _ *Context, maxDepth int) (int, float64, string, bool) {
			if !s.IsSpecialSection {
				return 0, 0, "", false
			}
			level := clampLevel(s.SpecialSectionLevel, maxDepth)
			switch {
			case s.HasMarker && s.MarkerDepth == level:
				return level, 0.9, "special_section_matches_marker", true
			case s.HasMarker:
				return level, 0.7, "special_section_conflicts_marker", true
			default:
				return level, 0.75, "special_section_without_marker", true
			}
		},
	},
	{
		name: "marker_only",
		apply: func(s signal.Signals, ctx *Context, maxDepth int) (int, float64, string, bool) {
			if !s.HasMarker {
				return 0, 0, "", false
			}
			level := clampLevel(s.MarkerDepth, maxDepth)
			switch ctx.MarkerConsistency() {
			case MarkerConsistent:
				return level, 0.8, "marker_consistent", true
			case MarkerAllSame:
				return level, 0.3, "marker_all_same", true
			default:
				return level, 0.5, "marker_inconsistent", true
			}
		},
	},
	{
		name: "no_signal",
		apply: func(_ signal.Signals, _ *Context, _ int) (int, float64, string, bool) {
			return 1, 0.2, "no_marker_no_numbering", true
		},
	},
}

// InferLevel runs the cascade for one heading.
func InferLevel(s signal.Signals, ctx *Context, maxDepth int) (level int, confidence float64, rationale string) {
	for _, r := range cascade {
		if l, c, reason, ok := r.apply(s, ctx, maxDepth); ok {
			return l, c, reason
		}
	}
	// The cascade ends in a catch-all; this is unreachable.
	return 1, 0.2, "no_marker_no_numbering"
}

// InferAll produces one rule-sourced Result per heading signal.
func InferAll(all []signal.Signals, ctx *Context, maxDepth int) []Result {
	results := make([]Result, len(all))
	for i, s := range all {
		level, confidence, rationale := InferLevel(s, ctx, maxDepth)
		results[i] = Result{
			Index:      s.Index,
			Level:      level,
			Confidence: confidence,
			Source:     SourceRule,
			Rationale:  rationale,
		}
	}
	return results
}
