package acrostic

import (
	"strings"
	"unicode"

	errs "github.com/matzehuels/acrostic/pkg/errors"
)

// Verify checks that l is a valid layout of words spelling letters:
//   - one line per letter
//   - lines cover one contiguous span with no word skipped or repeated
//   - the first line starts with its anchor word, the last ends with it
//   - every line is the indented join of its words with only the anchor
//     letter uppercased, and every anchor sits in column l.Column
//   - the anchor letters read top to bottom spell letters
//
// It returns an INTERNAL_ERROR describing the first violation found.
func (l *Layout) Verify(words []string, letters []rune) error {
	if len(l.Lines) != len(letters) {
		return errs.New(errs.ErrCodeInternal, "layout has %d lines for %d letters", len(l.Lines), len(letters))
	}
	if len(l.Lines) == 0 {
		return nil
	}

	first, last := l.Lines[0], l.Lines[len(l.Lines)-1]
	if first.Start != l.FirstWord || last.End != l.LastWord {
		return errs.New(errs.ErrCodeInternal, "lines cover [%d, %d], layout claims [%d, %d]",
			first.Start, last.End, l.FirstWord, l.LastWord)
	}
	if first.Anchor != first.Start {
		return errs.New(errs.ErrCodeInternal, "first line anchor %d is not its first word %d", first.Anchor, first.Start)
	}
	if last.Anchor != last.End {
		return errs.New(errs.ErrCodeInternal, "last line anchor %d is not its last word %d", last.Anchor, last.End)
	}
	if last.End >= len(words) {
		return errs.New(errs.ErrCodeInternal, "layout ends at word %d of %d", last.End, len(words))
	}

	for i, line := range l.Lines {
		if i > 0 && line.Start != l.Lines[i-1].End+1 {
			return errs.New(errs.ErrCodeInternal, "line %d starts at word %d, want %d", i, line.Start, l.Lines[i-1].End+1)
		}
		if line.Anchor < line.Start || line.Anchor > line.End {
			return errs.New(errs.ErrCodeInternal, "line %d anchor %d outside [%d, %d]", i, line.Anchor, line.Start, line.End)
		}
		anchor := []rune(words[line.Anchor])
		if line.Offset < 0 || line.Offset >= len(anchor) || anchor[line.Offset] != letters[i] {
			return errs.New(errs.ErrCodeInternal, "line %d anchor word %q has no %q at %d", i, words[line.Anchor], letters[i], line.Offset)
		}

		want := strings.Repeat(" ", line.Indent) + lineText(words, line.Start, line.End, line.Anchor, line.Offset)
		if line.Text != want {
			return errs.New(errs.ErrCodeInternal, "line %d text %q, want %q", i, line.Text, want)
		}

		col := line.Indent + line.Offset
		for k := line.Start; k < line.Anchor; k++ {
			col += len([]rune(words[k])) + 1
		}
		if col != l.Column {
			return errs.New(errs.ErrCodeInternal, "line %d anchor at column %d, want %d", i, col, l.Column)
		}
		text := []rune(line.Text)
		if text[col] != unicode.ToUpper(letters[i]) {
			return errs.New(errs.ErrCodeInternal, "line %d has no %q at column %d", i, letters[i], l.Column)
		}
	}
	return nil
}
