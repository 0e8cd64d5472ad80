package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/structree/internal/anthropic"
)

const (
	summarySystemPrompt = "You are a concise technical summarizer. Reply with the summary text only: no preamble, no markdown, at most three sentences."

	// maxContentChars caps the content sent per request; long sections are
	// summarized from their head.
	maxContentChars  = 2000
	summaryMaxTokens = 300
)

// ClaudeSummarizer produces summaries through the Anthropic Messages API.
type ClaudeSummarizer struct {
	client *anthropic.Client
}

// NewClaudeSummarizer wraps an existing API client.
func NewClaudeSummarizer(client *anthropic.Client) *ClaudeSummarizer {
	return &ClaudeSummarizer{client: client}
}

func (s *ClaudeSummarizer) SummarizeLeaf(ctx context.Context, heading, content string) (string, error) {
	text := normalizeSpace(content)
	if text == "" {
		return noContentPlaceholder, nil
	}

	prompt := fmt.Sprintf("Summarize the following section titled %q:\n\n%s",
		heading, anthropic.Truncate(text, maxContentChars))
	out, err := s.client.Complete(ctx, summarySystemPrompt, prompt, summaryMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *ClaudeSummarizer) SummarizeParent(ctx context.Context, heading string, childSummaries []string, ownContent string) (string, error) {
	if len(childSummaries) == 0 {
		if normalizeSpace(ownContent) == "" {
			return noChildrenPlaceholder, nil
		}
		return s.SummarizeLeaf(ctx, heading, ownContent)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the section %q from its subsection summaries:\n\n", heading)
	for _, cs := range childSummaries {
		b.WriteString("- ")
		b.WriteString(cs)
		b.WriteString("\n")
	}
	if own := normalizeSpace(ownContent); own != "" {
		fmt.Fprintf(&b, "\nThe section also has introductory text of its own:\n%s\n",
			anthropic.Truncate(own, maxContentChars))
	}

	out, err := s.client.Complete(ctx, summarySystemPrompt, b.String(), summaryMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
