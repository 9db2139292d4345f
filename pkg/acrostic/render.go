package acrostic

import (
	"strings"
	"unicode"
)

// Line is one rendered line of a layout.
type Line struct {
	Text   string  `json:"text"`   // padded line with the anchor letter uppercased
	Start  int     `json:"start"`  // first word index
	End    int     `json:"end"`    // last word index (inclusive)
	Anchor int     `json:"anchor"` // word index holding the letter
	Offset int     `json:"offset"` // rune index of the letter within the anchor word
	Indent int     `json:"indent"` // leading spaces added for alignment
	Letter string  `json:"letter"` // target letter, as normalized
	Score  float64 `json:"score"`
}

// Layout is a rendered acrostic. Every line's letter sits at rune column
// Column. Layouts are built once and not modified afterwards.
type Layout struct {
	Token     string    `json:"token"`      // normalized target letters
	Lines     []Line    `json:"lines"`      // one line per letter
	Column    int       `json:"column"`     // shared anchor column
	Cost      float64   `json:"cost"`       // total score of the chain
	Cap       int       `json:"cap"`        // cap the layout was found at
	FirstWord int       `json:"first_word"` // first word covered
	LastWord  int       `json:"last_word"`  // last word covered
	Attempts  []Attempt `json:"attempts,omitempty"`
}

// String returns the lines joined by newlines.
func (l *Layout) String() string {
	texts := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		texts[i] = line.Text
	}
	return strings.Join(texts, "\n")
}

// render builds the layout for a chain. Words are never modified; the
// anchor word is copied before its letter is uppercased.
func render(in *input, chain Chain, lineCap int) *Layout {
	column := 0
	for _, c := range chain.Candidates {
		column = max(column, c.Column)
	}

	layout := &Layout{
		Token:     string(in.letters),
		Lines:     make([]Line, len(chain.Candidates)),
		Column:    column,
		Cost:      chain.Cost,
		Cap:       lineCap,
		FirstWord: chain.Start(),
		LastWord:  chain.End(),
	}
	for i, c := range chain.Candidates {
		indent := column - c.Column
		layout.Lines[i] = Line{
			Text:   strings.Repeat(" ", indent) + lineText(in.words, c.Start, c.End, c.Anchor, c.Offset),
			Start:  c.Start,
			End:    c.End,
			Anchor: c.Anchor,
			Offset: c.Offset,
			Indent: indent,
			Letter: string(in.letters[i]),
			Score:  c.Score,
		}
	}
	return layout
}

// lineText joins words[start..end] with single spaces, uppercasing the rune
// at offset within word anchor. Digits and other caseless runes are left
// as they are by unicode.ToUpper.
func lineText(words []string, start, end, anchor, offset int) string {
	var b strings.Builder
	for k := start; k <= end; k++ {
		if k > start {
			b.WriteByte(' ')
		}
		if k != anchor {
			b.WriteString(words[k])
			continue
		}
		rs := []rune(words[k])
		rs[offset] = unicode.ToUpper(rs[offset])
		b.WriteString(string(rs))
	}
	return b.String()
}
