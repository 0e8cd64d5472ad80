package infer

import "github.com/dgallion1/structree/internal/signal"

// Escalation thresholds. Value-level policy, kept as named constants so the
// full/partial choice and the merge policy stay independently testable.
const (
	// ConfidenceThreshold separates headings the engine trusts from those it
	// submits to the adviser.
	ConfidenceThreshold = 0.6
	// LowRatioEscalate: escalate when more than this fraction of headings is
	// below ConfidenceThreshold.
	LowRatioEscalate = 0.3
	// FullModeRatio: resubmit the whole document when more than this fraction
	// is below threshold; otherwise only the uncertain headings go out.
	FullModeRatio = 0.5
	// KeepRuleConfidence: rule results at or above this confidence overrule a
	// conflicting adviser suggestion.
	KeepRuleConfidence = 0.8
	// AdviserConfidence is assigned to levels adopted from the adviser.
	AdviserConfidence = 0.85
)

// Mode selects how much context the adviser receives.
type Mode string

const (
	ModeNone    Mode = "none"
	ModeFull    Mode = "full"
	ModePartial Mode = "partial"
)

// Stats is the confidence histogram reported after rule inference.
type Stats struct {
	High   int `json:"high"`   // >= 0.8
	Medium int `json:"medium"` // [threshold, 0.8)
	Low    int `json:"low"`    // < threshold
	Total  int `json:"total"`
}

// ConfidenceStats buckets rule results by confidence.
func ConfidenceStats(results []Result) Stats {
	s := Stats{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Confidence >= 0.8:
			s.High++
		case r.Confidence >= ConfidenceThreshold:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}

func lowConfidenceCount(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Confidence < ConfidenceThreshold {
			n++
		}
	}
	return n
}

// NeedsEscalation reports whether the rule results are weak enough to consult
// the adviser. Any of: too many low-confidence headings, a flat unnumbered
// marker structure, or a downward jump of more than one level between
// adjacent headings.
func NeedsEscalation(all []signal.Signals, results []Result) bool {
	if len(results) == 0 {
		return false
	}

	if float64(lowConfidenceCount(results))/float64(len(results)) > LowRatioEscalate {
		return true
	}

	flat := true
	anyNumbering := false
	for _, s := range all {
		if s.MarkerDepth != all[0].MarkerDepth {
			flat = false
		}
		if s.NumberingDepth > 0 {
			anyNumbering = true
		}
	}
	if flat && !anyNumbering {
		return true
	}

	for i := 1; i < len(results); i++ {
		if results[i].Level-results[i-1].Level > 1 {
			return true
		}
	}

	return false
}

// SelectMode chooses full re-inference when over half the headings are below
// threshold, partial otherwise.
func SelectMode(results []Result) Mode {
	if len(results) == 0 {
		return ModePartial
	}
	ratio := float64(lowConfidenceCount(results)) / float64(len(results))
	if ratio > FullModeRatio {
		return ModeFull
	}
	return ModePartial
}
