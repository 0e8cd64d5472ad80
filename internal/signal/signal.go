// Package signal derives structured level-inference signals from heading
// candidates: numbering tokens, special-section vocabulary matches, and text
// features. Extraction is pure and never fails; every field is independently
// optional.
package signal

import (
	"unicode/utf8"

	"github.com/dgallion1/structree/internal/preprocess"
)

// Signals is the per-candidate signal bundle consumed by the rule engine.
// Immutable; one per candidate.
type Signals struct {
	Index     int
	LineIndex int
	RawText   string

	MarkerDepth int
	HasMarker   bool

	Numbering      string
	NumberingType  NumberingType
	NumberingDepth int

	IsSpecialSection    bool
	SpecialSectionLevel int

	TextLength  int
	HeadingText string // heading text with the numbering token removed
}

// Extract converts one heading candidate into its signal bundle.
func Extract(index int, c preprocess.Candidate) Signals {
	numbering := ParseNumbering(c.RawText)

	specialLevel, isSpecial := MatchSpecialSection(numbering.Title)
	if !isSpecial {
		specialLevel = 1
	}

	return Signals{
		Index:               index,
		LineIndex:           c.LineIndex,
		RawText:             c.RawText,
		MarkerDepth:         c.MarkerDepth,
		HasMarker:           c.HasMarker,
		Numbering:           numbering.Numbering,
		NumberingType:       numbering.Type,
		NumberingDepth:      numbering.Depth,
		IsSpecialSection:    isSpecial,
		SpecialSectionLevel: specialLevel,
		TextLength:          utf8.RuneCountInString(numbering.Title),
		HeadingText:         numbering.Title,
	}
}

// ExtractAll extracts signals for every candidate in order.
func ExtractAll(candidates []preprocess.Candidate) []Signals {
	out := make([]Signals, len(candidates))
	for i, c := range candidates {
		out[i] = Extract(i, c)
	}
	return out
}
