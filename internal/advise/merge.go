package advise

import (
	"fmt"

	"github.com/dgallion1/structree/internal/infer"
)

// Merge folds adviser suggestions back into the rule results. For each
// suggested heading whose adviser level differs from the rule level, the
// adviser level is adopted at a fixed confidence — unless the rule was
// already confident (>= KeepRuleConfidence), in which case the rule result
// is kept and the conflict recorded in the rationale. Headings the adviser
// did not answer for are untouched. Returns a new slice; the input is not
// mutated.
func Merge(results []infer.Result, suggestions []Suggestion, mode infer.Mode, maxDepth int) []infer.Result {
	merged := make([]infer.Result, len(results))
	copy(merged, results)

	source := infer.SourceAdviserPartial
	if mode == infer.ModeFull {
		source = infer.SourceAdviserFull
	}

	for _, sug := range suggestions {
		if sug.Index < 0 || sug.Index >= len(merged) {
			continue
		}
		level := sug.Level
		if level < 1 {
			level = 1
		}
		if level > maxDepth {
			level = maxDepth
		}

		r := merged[sug.Index]
		if level == r.Level {
			continue
		}

		if r.Confidence >= infer.KeepRuleConfidence {
			r.Rationale = fmt.Sprintf("%s; adviser suggested L%d, overruled", r.Rationale, level)
			merged[sug.Index] = r
			continue
		}

		rationale := "adviser:corrected"
		if sug.Reasoning != "" {
			rationale = "adviser:" + sug.Reasoning
		}
		merged[sug.Index] = infer.Result{
			Index:      r.Index,
			Level:      level,
			Confidence: infer.AdviserConfidence,
			Source:     source,
			Rationale:  rationale,
		}
	}

	return merged
}
