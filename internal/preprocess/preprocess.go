// Package preprocess turns raw document text into an ordered list of heading
// candidates, masking fenced code regions and recovering headings that lack
// explicit markers.
package preprocess

import (
	"regexp"
	"strings"
)

// Candidate is one physical line recognized (or heuristically inferred) as a
// heading. Immutable once created.
type Candidate struct {
	LineIndex   int
	MarkerDepth int // count of '#' characters, 0 if none
	HasMarker   bool
	RawText     string // heading text after decorative cleanup
	LineText    string // the original line
}

var (
	atxRe      = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	atxLooseRe = regexp.MustCompile(`^(#{1,6})(\S.*?)\s*$`)

	trailingHashRe = regexp.MustCompile(`\s+#+\s*$`)
	linkRe         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
	fenceRe        = regexp.MustCompile("^\\s*(`{3,}|~{3,})")

	endingPunctRe = regexp.MustCompile(`[.!?;:。！？；：]$`)

	numberingHintRe = regexp.MustCompile(
		`(?i)^(\d+(?:\.\d+)*|[A-Z](?:\.\d+)*|[IVXLCDM]+|第[一二三四五六七八九十百]+[章节部分篇])(?:[.\s):\-]+|\s+).+`)
	specialHintRe = regexp.MustCompile(
		`(?i)^(abstract|introduction|related work|methods?|experiments?|results?|discussion|conclusion|references|acknowledg?ments?|appendix)\b`)

	// RE2 has no backreferences, so emphasis pairs are handled per delimiter,
	// longest first.
	emphasisRes = []*regexp.Regexp{
		regexp.MustCompile(`\*\*(.+?)\*\*`),
		regexp.MustCompile(`__(.+?)__`),
		regexp.MustCompile(`\*(.+?)\*`),
		regexp.MustCompile(`_(.+?)_`),
	}
)

// unmarkedMaxLen is the length cutoff for the unmarked-heading heuristic.
const unmarkedMaxLen = 80

// MarkCodeLines returns the set of line indices inside fenced code regions,
// delimiter lines included. A fence opens on a run of 3+ backticks or tildes
// and closes only on a fence of the same kind; an unterminated fence extends
// to the end of the document. Nesting is not supported.
func MarkCodeLines(lines []string) map[int]bool {
	code := make(map[int]bool)
	var open byte

	for i, line := range lines {
		m := fenceRe.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			kind := m[1][0]
			switch {
			case open == 0:
				open = kind
			case kind == open:
				open = 0
			}
			code[i] = true
			continue
		}
		if open != 0 {
			code[i] = true
		}
	}
	return code
}

// CleanHeadingText strips decorative markdown noise from heading text:
// a trailing closing-marker echo, inline links (label kept), emphasis
// wrapping, trailing punctuation, and redundant whitespace.
func CleanHeadingText(text string) string {
	cleaned := trailingHashRe.ReplaceAllString(text, "")
	cleaned = linkRe.ReplaceAllString(cleaned, "$1")
	for pass := 0; pass < 3; pass++ {
		updated := cleaned
		for _, re := range emphasisRes {
			updated = re.ReplaceAllString(updated, "$1")
		}
		if updated == cleaned {
			break
		}
		cleaned = updated
	}
	cleaned = strings.Trim(cleaned, " \t　")
	cleaned = strings.TrimRight(cleaned, "。.；;:")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// normalizeMarked parses one ATX heading line. Lines whose text is empty
// after cleanup are not candidates.
func normalizeMarked(line string) (depth int, text string, ok bool) {
	normalized := strings.TrimPrefix(line, "\uFEFF")
	m := atxRe.FindStringSubmatch(normalized)
	if m == nil {
		m = atxLooseRe.FindStringSubmatch(normalized)
	}
	if m == nil {
		return 0, "", false
	}
	text = CleanHeadingText(m[2])
	if text == "" {
		return 0, "", false
	}
	return len(m[1]), text, true
}

// IsUnmarkedHeading reports whether a line without '#' markers looks like a
// heading: short, isolated by blank lines, starting with a numbering token or
// a known section name, and not shaped like a sentence. The heuristic trades
// recall for precision; missed headings merge into the previous section.
func IsUnmarkedHeading(line, prevLine, nextLine string) bool {
	stripped := strings.TrimSpace(strings.TrimPrefix(line, "\uFEFF"))
	if stripped == "" {
		return false
	}
	if len(stripped) > unmarkedMaxLen {
		return false
	}
	if strings.HasPrefix(stripped, "#") {
		return false
	}
	if strings.ContainsAny(stripped, ",，") {
		return false
	}
	if endingPunctRe.MatchString(stripped) {
		return false
	}

	isolated := strings.TrimSpace(prevLine) == "" && strings.TrimSpace(nextLine) == ""
	if !isolated {
		return false
	}
	return numberingHintRe.MatchString(stripped) || specialHintRe.MatchString(stripped)
}

// ExtractCandidates scans the document lines and returns ordered heading
// candidates plus the masked code-line set.
func ExtractCandidates(lines []string) ([]Candidate, map[int]bool) {
	codeLines := MarkCodeLines(lines)
	var candidates []Candidate

	for i, line := range lines {
		if codeLines[i] {
			continue
		}

		if depth, text, ok := normalizeMarked(line); ok {
			candidates = append(candidates, Candidate{
				LineIndex:   i,
				MarkerDepth: depth,
				HasMarker:   true,
				RawText:     text,
				LineText:    line,
			})
			continue
		}

		var prev, next string
		if i > 0 {
			prev = lines[i-1]
		}
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		if IsUnmarkedHeading(line, prev, next) {
			candidates = append(candidates, Candidate{
				LineIndex: i,
				RawText:   strings.TrimSpace(line),
				LineText:  line,
			})
		}
	}

	return candidates, codeLines
}
