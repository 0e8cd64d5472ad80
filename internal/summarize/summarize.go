// Package summarize defines the external text-summarization contract and
// drives bottom-up summary generation over a document tree. A no-op or
// truncation-based implementation is enough to build and inspect trees;
// summaries are the only field an external collaborator writes.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/structree/internal/tree"
)

// Summarizer turns section content into short text. SummarizeLeaf covers
// content-only calls; SummarizeParent aggregates child summaries with the
// parent's own direct content.
type Summarizer interface {
	SummarizeLeaf(ctx context.Context, heading, content string) (string, error)
	SummarizeParent(ctx context.Context, heading string, childSummaries []string, ownContent string) (string, error)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Apply fills summaries bottom-up for every non-root node: leaves first, then
// parents from their children's summaries plus any direct content. A nil
// summarizer is a no-op. Individual failures leave that node's summary empty
// and are returned as warnings; Apply never fails the build.
func Apply(ctx context.Context, t *tree.DocumentTree, s Summarizer) (int, []string) {
	if s == nil {
		return 0, nil
	}

	summarized := 0
	var warnings []string

	for _, n := range tree.PostOrder(t.Root) {
		if n.Level == 0 {
			continue
		}

		var summary string
		var err error
		if n.IsLeaf() {
			summary, err = s.SummarizeLeaf(ctx, n.Heading, n.Content)
		} else {
			var childSummaries []string
			for _, child := range n.Children {
				if child.Summary != "" {
					childSummaries = append(childSummaries, child.Heading+": "+child.Summary)
				}
			}
			summary, err = s.SummarizeParent(ctx, n.Heading, childSummaries, n.Content)
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("summarize %s: %s", n.ID, err))
			continue
		}
		n.Summary = summary
		summarized++
	}

	return summarized, warnings
}

// ApplyPreambles summarizes the injected preamble leaves, which did not
// exist during the main pass. Parent summaries are already final and are not
// touched.
func ApplyPreambles(ctx context.Context, t *tree.DocumentTree, s Summarizer) (int, []string) {
	if s == nil {
		return 0, nil
	}

	summarized := 0
	var warnings []string

	for _, n := range tree.PreambleLeaves(t) {
		summary, err := s.SummarizeLeaf(ctx, n.Heading, n.Content)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("summarize %s: %s", n.ID, err))
			continue
		}
		n.Summary = summary
		summarized++
	}

	return summarized, warnings
}
