package advise

import (
	"fmt"
	"strings"

	"github.com/dgallion1/structree/internal/infer"
)

const systemPrompt = "You are a document structure analysis expert. Return strict JSON only."

// BuildPrompt renders the escalation request for the configured mode.
func BuildPrompt(req Request) string {
	if req.Mode == infer.ModeFull {
		return buildFullPrompt(req)
	}
	return buildPartialPrompt(req)
}

// buildFullPrompt resubmits every heading with its rule-derived level and
// confidence as hints.
func buildFullPrompt(req Request) string {
	var headings, hints strings.Builder
	for _, h := range req.Headings {
		fmt.Fprintf(&headings, "%d. %s\n", h.Index, h.Heading)
		fmt.Fprintf(&hints, "index=%d, level=%d, confidence=%.2f, reason=%s\n",
			h.Index, h.Level, h.Confidence, h.Rationale)
	}

	return fmt.Sprintf(
		"Infer the heading level for each heading of a document.\n"+
			"Level definitions: 1=top level, 2=subsection, continuing down to %d.\n"+
			"Output a strict JSON object with key 'results'.\n"+
			"Each result item must include: index, level, reasoning.\n\n"+
			"Headings:\n%s\nRule-engine hints:\n%s",
		req.MaxDepth, headings.String(), hints.String())
}

// buildPartialPrompt submits only the uncertain headings, with their
// confident neighbors shown as structure context.
func buildPartialPrompt(req Request) string {
	var contextLines, uncertain strings.Builder
	for _, h := range req.Headings {
		marker := fmt.Sprintf("[L%d]", h.Level)
		if h.Uncertain {
			marker = "[?]"
			fmt.Fprintf(&uncertain, "index=%d, heading=%s\n", h.Index, h.Heading)
		}
		fmt.Fprintf(&contextLines, "%s %d. %s\n", marker, h.Index, h.Heading)
	}

	return fmt.Sprintf(
		"Some headings of a document are uncertain and marked with [?].\n"+
			"Infer levels (1..%d) for the uncertain headings only.\n"+
			"Return a strict JSON object with key 'results'.\n"+
			"Each item: index, level, reasoning.\n\n"+
			"Structure context:\n%s\nUncertain headings:\n%s",
		req.MaxDepth, contextLines.String(), uncertain.String())
}
