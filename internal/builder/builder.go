// Package builder wires the inference stages into one pass: candidate
// extraction, signal derivation, rule-based level inference, optional adviser
// escalation, tree assembly, repair, and (for BuildDocument) summarization
// and preamble injection. Build is deterministic for a given input when no
// adviser is consulted.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/structree/internal/advise"
	"github.com/dgallion1/structree/internal/infer"
	"github.com/dgallion1/structree/internal/preprocess"
	"github.com/dgallion1/structree/internal/signal"
	"github.com/dgallion1/structree/internal/summarize"
	"github.com/dgallion1/structree/internal/tree"
)

// DefaultMaxDepth bounds tree depth when the caller does not set one.
const DefaultMaxDepth = 3

const defaultAdviserRetries = 1

// Options configures one build. The zero value works: default depth, no
// adviser, no summarizer.
type Options struct {
	// MaxDepth is the deepest allowed heading level; 0 means DefaultMaxDepth.
	MaxDepth int
	// Adviser, when set, is consulted for low-confidence level decisions.
	Adviser advise.Adviser
	// AdviserRetries is the number of retries after a transient adviser
	// failure; 0 means one retry.
	AdviserRetries int
	// Backoff returns the wait before retry attempt n (0-based).
	Backoff func(attempt int) time.Duration
}

// LowConfidenceHeading is one heading whose final confidence stayed below the
// escalation threshold, surfaced for manual review.
type LowConfidenceHeading struct {
	Index      int     `json:"index"`
	Heading    string  `json:"heading"`
	Level      int     `json:"level"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Report describes what one build did and how sure it is of the result.
type Report struct {
	HeadingsDetected int         `json:"headings_detected"`
	CodeLinesMasked  int         `json:"code_lines_masked"`
	Confidence       infer.Stats `json:"confidence"`

	EscalationUsed bool       `json:"escalation_used"`
	EscalationMode infer.Mode `json:"escalation_mode"`
	// Degraded is set when escalation was needed but the adviser was missing
	// or failed; the tree is then built from rule results alone.
	Degraded bool `json:"degraded"`

	Warnings      []string               `json:"warnings,omitempty"`
	Repairs       []string               `json:"repairs,omitempty"`
	LowConfidence []LowConfidenceHeading `json:"low_confidence,omitempty"`

	PreambleInjected int `json:"preamble_injected"`
	Summarized       int `json:"summarized"`
}

func (o Options) maxDepth() int {
	if o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) retries() int {
	if o.AdviserRetries <= 0 {
		return defaultAdviserRetries
	}
	return o.AdviserRetries
}

func (o Options) backoff(attempt int) time.Duration {
	if o.Backoff != nil {
		return o.Backoff(attempt)
	}
	return time.Duration(attempt+1) * 500 * time.Millisecond
}

// Build runs the structural pipeline on raw text and returns the repaired
// tree plus its report. The only input errors are an invalid depth bound and
// non-UTF-8 text; everything else degrades into warnings.
func Build(ctx context.Context, text, docID string, opts Options) (*tree.DocumentTree, *Report, error) {
	maxDepth := opts.maxDepth()
	if maxDepth < 1 {
		return nil, nil, errors.New("max depth must be at least 1")
	}
	if !utf8.ValidString(text) {
		return nil, nil, errors.New("document text is not valid UTF-8")
	}

	report := &Report{EscalationMode: infer.ModeNone}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	candidates, codeLines := preprocess.ExtractCandidates(lines)
	report.HeadingsDetected = len(candidates)
	report.CodeLinesMasked = len(codeLines)

	if len(candidates) == 0 {
		report.Warnings = append(report.Warnings, "no headings detected; document kept as root content")
		t := tree.Assemble(docID, nil, text, maxDepth)
		return t, report, nil
	}

	all := signal.ExtractAll(candidates)
	inferCtx := infer.NewContext(all)
	results := infer.InferAll(all, inferCtx, maxDepth)
	report.Confidence = infer.ConfidenceStats(results)

	if infer.NeedsEscalation(all, results) {
		report.EscalationUsed = true
		switch {
		case opts.Adviser == nil:
			report.Degraded = true
			report.Warnings = append(report.Warnings, "escalation needed but no adviser configured; using rule results")
		default:
			mode := infer.SelectMode(results)
			report.EscalationMode = mode
			suggestions, err := consultAdviser(ctx, opts, advise.Request{
				DocID:    docID,
				MaxDepth: maxDepth,
				Mode:     mode,
				Headings: buildHints(all, results, mode),
			})
			if err != nil {
				report.Degraded = true
				report.Warnings = append(report.Warnings, fmt.Sprintf("adviser failed: %s; using rule results", err))
			} else {
				results = advise.Merge(results, suggestions, mode, maxDepth)
			}
		}
	}

	for _, r := range results {
		if r.Confidence < infer.ConfidenceThreshold {
			report.LowConfidence = append(report.LowConfidence, LowConfidenceHeading{
				Index:      r.Index,
				Heading:    headingText(all[r.Index]),
				Level:      r.Level,
				Confidence: r.Confidence,
				Rationale:  r.Rationale,
			})
		}
	}

	sections := buildSections(lines, candidates, all, results)
	rootContent := strings.Join(lines[:candidates[0].LineIndex], "\n")

	t := tree.Assemble(docID, sections, rootContent, maxDepth)
	report.Repairs = tree.Repair(t, maxDepth)
	return t, report, nil
}

// BuildDocument runs Build, then the late phases: bottom-up summarization,
// preamble injection, and summaries for the injected leaves. Summarizer
// failures are warnings, never build failures.
func BuildDocument(ctx context.Context, text, docID string, s summarize.Summarizer, opts Options) (*tree.DocumentTree, *Report, error) {
	t, report, err := Build(ctx, text, docID, opts)
	if err != nil {
		return nil, nil, err
	}

	n, warnings := summarize.Apply(ctx, t, s)
	report.Summarized = n
	report.Warnings = append(report.Warnings, warnings...)

	report.PreambleInjected = tree.InjectPreambles(t)

	n, warnings = summarize.ApplyPreambles(ctx, t, s)
	report.Summarized += n
	report.Warnings = append(report.Warnings, warnings...)

	return t, report, nil
}

func consultAdviser(ctx context.Context, opts Options, req advise.Request) ([]advise.Suggestion, error) {
	suggestions, err := opts.Adviser.SuggestLevels(ctx, req)
	for attempt := 0; err != nil && advise.IsRetryable(err) && attempt < opts.retries(); attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.backoff(attempt)):
		}
		suggestions, err = opts.Adviser.SuggestLevels(ctx, req)
	}
	return suggestions, err
}

// buildHints selects the headings sent to the adviser. Full mode sends all of
// them; partial mode sends the uncertain ones plus their nearest confident
// neighbor on each side, so the adviser sees local context.
func buildHints(all []signal.Signals, results []infer.Result, mode infer.Mode) []advise.HeadingHint {
	include := make([]bool, len(results))
	uncertain := make([]bool, len(results))
	for i, r := range results {
		uncertain[i] = r.Confidence < infer.ConfidenceThreshold
	}

	if mode == infer.ModeFull {
		for i := range include {
			include[i] = true
		}
	} else {
		for i := range results {
			if !uncertain[i] {
				continue
			}
			include[i] = true
			for j := i - 1; j >= 0; j-- {
				if !uncertain[j] {
					include[j] = true
					break
				}
			}
			for j := i + 1; j < len(results); j++ {
				if !uncertain[j] {
					include[j] = true
					break
				}
			}
		}
	}

	var hints []advise.HeadingHint
	for i, r := range results {
		if !include[i] {
			continue
		}
		hints = append(hints, advise.HeadingHint{
			Index:      r.Index,
			Heading:    headingText(all[i]),
			Level:      r.Level,
			Confidence: r.Confidence,
			Rationale:  r.Rationale,
			Uncertain:  uncertain[i],
		})
	}
	return hints
}

// buildSections pairs each heading with the body lines running up to the next
// heading. Lines before the first heading become root content in Build.
func buildSections(lines []string, candidates []preprocess.Candidate, all []signal.Signals, results []infer.Result) []tree.Section {
	sections := make([]tree.Section, len(candidates))
	for i, c := range candidates {
		end := len(lines)
		if i+1 < len(candidates) {
			end = candidates[i+1].LineIndex
		}
		sections[i] = tree.Section{
			Index:     i + 1,
			Heading:   headingText(all[i]),
			Numbering: all[i].Numbering,
			Level:     results[i].Level,
			Content:   strings.Join(lines[c.LineIndex+1:end], "\n"),
		}
	}
	return sections
}

func headingText(s signal.Signals) string {
	if s.HeadingText != "" {
		return s.HeadingText
	}
	return s.RawText
}
