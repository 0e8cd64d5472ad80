package summarize

import "context"

const (
	truncateMaxChars     = 100
	noContentPlaceholder = "No content available."
	noChildrenPlaceholder = "No child summaries available."
)

// Truncating is a deterministic offline summarizer: the first characters of
// the content, whitespace-normalized. Useful for tests and for running the
// service without an API key.
type Truncating struct {
	// MaxChars bounds the summary length in runes; 0 means the default.
	MaxChars int
}

func (tr *Truncating) limit() int {
	if tr.MaxChars > 0 {
		return tr.MaxChars
	}
	return truncateMaxChars
}

func (tr *Truncating) SummarizeLeaf(_ context.Context, _ string, content string) (string, error) {
	text := normalizeSpace(content)
	if text == "" {
		return noContentPlaceholder, nil
	}
	return truncateRunes(text, tr.limit()), nil
}

func (tr *Truncating) SummarizeParent(_ context.Context, _ string, childSummaries []string, ownContent string) (string, error) {
	if len(childSummaries) == 0 {
		text := normalizeSpace(ownContent)
		if text == "" {
			return noChildrenPlaceholder, nil
		}
		return truncateRunes(text, tr.limit()), nil
	}
	return truncateRunes(normalizeSpace(childSummaries[0]), tr.limit()), nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
