package signal

import (
	"regexp"
	"strings"
)

// NumberingType identifies the pattern family a heading's numbering token
// belongs to.
type NumberingType string

const (
	NumberingNone     NumberingType = "none"
	NumberingArabic   NumberingType = "arabic"
	NumberingRoman    NumberingType = "roman"
	NumberingLetter   NumberingType = "letter"
	NumberingChinese  NumberingType = "chinese"
	NumberingPrefix   NumberingType = "prefix"
	NumberingAppendix NumberingType = "appendix"
)

var (
	arabicRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)(?:[.):\-]|\s)+(.+)$`)
	letterRe = regexp.MustCompile(`^([A-Z](?:\.\d+)*)(?:[.):\-]|\s)+(.+)$`)
	romanRe  = regexp.MustCompile(
		`(?i)^((?:M{0,4})(?:CM|CD|D?C{0,3})(?:XC|XL|L?X{0,3})(?:IX|IV|V?I{0,3}))(?:[.):\-]|\s)+(.+)$`)
	chineseRe  = regexp.MustCompile(`^第([一二三四五六七八九十百]+)([章节部分篇])\s*(.*)$`)
	prefixRe   = regexp.MustCompile(`(?i)^(Chapter|Part|Section)\s+([A-Za-z0-9.]+)\s*(?:[.:\-]\s*)?(.+)$`)
	appendixRe = regexp.MustCompile(`(?i)^Appendix\s+([A-Z](?:\.\d+)*)\s*(?:[.:\-]\s*)?(.+)?$`)
)

// NumberingParse is the result of matching one heading against the known
// numbering pattern families. Absence is represented, never an error.
type NumberingParse struct {
	Numbering string
	Type      NumberingType
	Depth     int
	Title     string // heading text with the numbering token removed
}

func numberingDepth(numbering string, typ NumberingType) int {
	if numbering == "" {
		return 0
	}
	switch typ {
	case NumberingArabic, NumberingLetter, NumberingAppendix, NumberingPrefix:
		return strings.Count(numbering, ".") + 1
	case NumberingRoman, NumberingChinese:
		return 1
	}
	return 0
}

// ParseNumbering tries the pattern families in a fixed order, first match
// wins. Appendix and Chapter/Part/Section prefixes go first so "Appendix A"
// and "Chapter 3" are not misread as letter/arabic numbering; roman goes
// before letter so "I. Introduction" is roman.
func ParseNumbering(text string) NumberingParse {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return NumberingParse{Type: NumberingNone}
	}

	if m := appendixRe.FindStringSubmatch(stripped); m != nil {
		numbering := strings.TrimSpace(m[1])
		title := strings.TrimSpace(m[2])
		if title == "" {
			title = stripped
		}
		return NumberingParse{
			Numbering: numbering,
			Type:      NumberingAppendix,
			Depth:     numberingDepth(numbering, NumberingAppendix),
			Title:     title,
		}
	}

	if m := prefixRe.FindStringSubmatch(stripped); m != nil {
		numbering := strings.TrimSpace(m[2])
		title := strings.TrimSpace(m[3])
		if title == "" {
			title = stripped
		}
		return NumberingParse{
			Numbering: numbering,
			Type:      NumberingPrefix,
			Depth:     numberingDepth(numbering, NumberingPrefix),
			Title:     title,
		}
	}

	if m := arabicRe.FindStringSubmatch(stripped); m != nil {
		numbering := strings.TrimSpace(m[1])
		return NumberingParse{
			Numbering: numbering,
			Type:      NumberingArabic,
			Depth:     numberingDepth(numbering, NumberingArabic),
			Title:     strings.TrimSpace(m[2]),
		}
	}

	// The roman alternation can match empty; require a real token.
	if m := romanRe.FindStringSubmatch(stripped); m != nil && m[1] != "" {
		numbering := strings.TrimSpace(m[1])
		return NumberingParse{
			Numbering: numbering,
			Type:      NumberingRoman,
			Depth:     numberingDepth(numbering, NumberingRoman),
			Title:     strings.TrimSpace(m[2]),
		}
	}

	if m := letterRe.FindStringSubmatch(stripped); m != nil {
		numbering := strings.TrimSpace(m[1])
		return NumberingParse{
			Numbering: numbering,
			Type:      NumberingLetter,
			Depth:     numberingDepth(numbering, NumberingLetter),
			Title:     strings.TrimSpace(m[2]),
		}
	}

	if m := chineseRe.FindStringSubmatch(stripped); m != nil {
		numbering := "第" + m[1] + m[2]
		title := strings.TrimSpace(m[3])
		if title == "" {
			title = stripped
		}
		return NumberingParse{
			Numbering: numbering,
			Type:      NumberingChinese,
			Depth:     numberingDepth(numbering, NumberingChinese),
			Title:     title,
		}
	}

	return NumberingParse{Type: NumberingNone, Title: stripped}
}
