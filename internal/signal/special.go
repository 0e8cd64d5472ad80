package signal

import "strings"

// SpecialSection is one vocabulary entry with its default outline level.
// Defaults are level 1 across the board; terms like "background" and
// "future work" are sometimes sub-sections, but that ambiguity is left to
// the confidence scoring and escalation rather than resolved here.
type SpecialSection struct {
	Term  string
	Level int
}

// DefaultVocabulary is the known section-name vocabulary, matched
// case-insensitively with prefix tolerance.
var DefaultVocabulary = []SpecialSection{
	{"abstract", 1},
	{"摘要", 1},
	{"introduction", 1},
	{"引言", 1},
	{"绪论", 1},
	{"related work", 1},
	{"background", 1},
	{"methodology", 1},
	{"method", 1},
	{"methods", 1},
	{"approach", 1},
	{"experiments", 1},
	{"evaluation", 1},
	{"results", 1},
	{"discussion", 1},
	{"conclusion", 1},
	{"conclusions", 1},
	{"summary", 1},
	{"acknowledgments", 1},
	{"acknowledgements", 1},
	{"references", 1},
	{"bibliography", 1},
	{"appendix", 1},
	{"supplementary", 1},
	{"future work", 1},
}

// MatchSpecialSection returns the default level for a heading that matches a
// vocabulary term exactly or as a "term " / "term:" prefix.
func MatchSpecialSection(headingText string) (int, bool) {
	normalized := strings.TrimSpace(strings.ToLower(headingText))
	for _, entry := range DefaultVocabulary {
		if normalized == entry.Term ||
			strings.HasPrefix(normalized, entry.Term+" ") ||
			strings.HasPrefix(normalized, entry.Term+":") {
			return entry.Level, true
		}
	}
	return 0, false
}
