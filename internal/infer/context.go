package infer

import "github.com/dgallion1/structree/internal/signal"

// MarkerConsistency classifies how the document uses '#' markers.
type MarkerConsistency string

const (
	// MarkerAllSame: exactly one distinct marker depth across more than one
	// marked heading. A flat outline the markers cannot disambiguate.
	MarkerAllSame MarkerConsistency = "all_same"
	// MarkerConsistent: two or more distinct marker depths in use.
	MarkerConsistent MarkerConsistency = "consistent"
	// MarkerInconsistent covers everything else (no marked headings, or a
	// single heading). The rule engine scores it between the other two.
	MarkerInconsistent MarkerConsistency = "inconsistent"
)

// Context holds corpus-wide statistics over all heading signals of one
// document. Computed once, read-only for the duration of inference.
type Context struct {
	MarkerHistogram   map[int]int // marker depth -> count, marked headings only
	NumberingCoverage float64     // fraction of headings with numbering depth > 0
	DominantNumbering signal.NumberingType

	headingCount int
	markedCount  int
}

// NewContext aggregates document-wide statistics from all heading signals.
func NewContext(all []signal.Signals) *Context {
	ctx := &Context{
		MarkerHistogram:   make(map[int]int),
		DominantNumbering: signal.NumberingNone,
		headingCount:      len(all),
	}

	numbered := 0
	counts := make(map[signal.NumberingType]int)
	var firstSeen []signal.NumberingType

	for _, s := range all {
		if s.HasMarker {
			ctx.MarkerHistogram[s.MarkerDepth]++
			ctx.markedCount++
		}
		if s.NumberingDepth > 0 {
			numbered++
		}
		if s.NumberingType != signal.NumberingNone {
			if counts[s.NumberingType] == 0 {
				firstSeen = append(firstSeen, s.NumberingType)
			}
			counts[s.NumberingType]++
		}
	}

	if len(all) > 0 {
		ctx.NumberingCoverage = float64(numbered) / float64(len(all))
	}

	// Mode, ties broken by first-seen order.
	best := 0
	for _, typ := range firstSeen {
		if counts[typ] > best {
			best = counts[typ]
			ctx.DominantNumbering = typ
		}
	}

	return ctx
}

// MarkerConsistency classifies the marker-depth distribution. Advisory input
// to the rule engine, not authoritative.
func (c *Context) MarkerConsistency() MarkerConsistency {
	switch {
	case len(c.MarkerHistogram) == 1 && c.markedCount > 1:
		return MarkerAllSame
	case len(c.MarkerHistogram) >= 2:
		return MarkerConsistent
	default:
		return MarkerInconsistent
	}
}
