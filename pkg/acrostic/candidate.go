package acrostic

import (
	"cmp"
	"slices"
)

// Candidate is a proposed line for one target letter: the words
// [Start, End] with the letter taken from word Anchor at rune Offset.
type Candidate struct {
	Start  int     `json:"start"`  // first word of the line
	End    int     `json:"end"`    // last word of the line (inclusive)
	Anchor int     `json:"anchor"` // word holding the letter
	Offset int     `json:"offset"` // rune index of the letter within the anchor word
	Column int     `json:"column"` // rune column of the letter within the unpadded line
	Length int     `json:"length"` // rune length of the line, words joined by single spaces
	Score  float64 `json:"score"`  // line quality, lower is better
}

// Alone reports whether the anchor word is the last word of the line.
func (c Candidate) Alone() bool {
	return c.End == c.Anchor
}

// compareCandidates orders candidates by score, then shorter line, then
// earlier anchor. Within one state (fixed Start) the order is total.
func compareCandidates(a, b Candidate) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return cmp.Compare(a.Anchor, b.Anchor)
}

// =============================================================================
// Input - Words, Letters and Prefix Sums
// =============================================================================

// input holds the immutable word and letter sequences shared by every cap
// attempt.
type input struct {
	words   []string
	runes   [][]rune
	letters []rune
	cum     []int // cum[k] is the rune length of words[0:k]
}

func newInput(words []string, letters []rune) *input {
	in := &input{
		words:   words,
		runes:   make([][]rune, len(words)),
		letters: letters,
		cum:     make([]int, len(words)+1),
	}
	for i, w := range words {
		in.runes[i] = []rune(w)
		in.cum[i+1] = in.cum[i] + len(in.runes[i])
	}
	return in
}

// segLen returns the rune length of words[a..b] joined by single spaces.
func (in *input) segLen(a, b int) int {
	return in.cum[b+1] - in.cum[a] + (b - a)
}

// column returns the column of rune offset within word j of a line
// starting at word a.
func (in *input) column(a, j, offset int) int {
	return in.cum[j] - in.cum[a] + (j - a) + offset
}

// anchorOffset returns the occurrence of ch in word closest to the word's
// center, preferring the lower index on ties.
func anchorOffset(word []rune, ch rune) (int, bool) {
	center := float64(len(word)-1) / 2
	best, bestDist := -1, 0.0
	for i, r := range word {
		if r != ch {
			continue
		}
		d := float64(i) - center
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// =============================================================================
// Generator - Candidate Lines per (letter, start word)
// =============================================================================

// generator enumerates candidates for one cap. Results are cached per
// state and must not be shared across caps.
type generator struct {
	in         *input
	lineCap    int
	minLen     int
	topK       int
	extensions int

	cache [][]Candidate
	built []bool
}

func newGenerator(in *input, opts *Options, lineCap int) *generator {
	states := len(in.letters) * (len(in.words) + 1)
	return &generator{
		in:         in,
		lineCap:    lineCap,
		minLen:     opts.MinLineChars,
		topK:       opts.TopK,
		extensions: opts.Extensions,
		cache:      make([][]Candidate, states),
		built:      make([]bool, states),
	}
}

// candidates returns the pruned candidates for letter i starting at word
// pos, sorted by compareCandidates.
func (g *generator) candidates(i, pos int) []Candidate {
	idx := i*(len(g.in.words)+1) + pos
	if !g.built[idx] {
		g.cache[idx] = g.prune(g.enumerate(i, pos))
		g.built[idx] = true
	}
	return g.cache[idx]
}

func (g *generator) enumerate(i, pos int) []Candidate {
	in := g.in
	n := len(in.words)
	if pos >= n {
		return nil
	}
	ch := in.letters[i]
	first, last := i == 0, i == len(in.letters)-1

	var out []Candidate
	for j := pos; j < n; j++ {
		if in.segLen(pos, j) > g.lineCap {
			break
		}
		offset, ok := anchorOffset(in.runes[j], ch)
		if ok {
			out = append(out, g.candidate(pos, j, j, offset))
			if !last {
				out = g.extend(out, pos, j, offset)
			}
		}
		// The first printed word must be the first anchor word.
		if first {
			break
		}
	}
	return out
}

// extend appends candidates that keep going past anchor word j until the
// line reaches the minimum length, plus a few longer ones, all within cap.
func (g *generator) extend(out []Candidate, pos, j, offset int) []Candidate {
	in := g.in
	n := len(in.words)

	e := j
	for e < n && in.segLen(pos, e) < g.minLen && in.segLen(pos, e) <= g.lineCap {
		e++
	}
	e0 := e
	if e >= n || in.segLen(pos, e) > g.lineCap {
		e0 = max(j, e-1)
	}

	for k := 0; k < g.extensions; k++ {
		end := e0 + k
		if end >= n || in.segLen(pos, end) > g.lineCap {
			break
		}
		if end == j {
			continue // already emitted as the anchor-alone candidate
		}
		out = append(out, g.candidate(pos, j, end, offset))
	}
	return out
}

func (g *generator) candidate(start, anchor, end, offset int) Candidate {
	col := g.in.column(start, anchor, offset)
	length := g.in.segLen(start, end)
	return Candidate{
		Start:  start,
		End:    end,
		Anchor: anchor,
		Offset: offset,
		Column: col,
		Length: length,
		Score:  Score(col, length, g.minLen, g.lineCap),
	}
}

// prune keeps the topK best candidates plus every anchor-alone candidate,
// so pruning never removes the only way to end a line at a given anchor.
func (g *generator) prune(out []Candidate) []Candidate {
	slices.SortFunc(out, compareCandidates)
	if len(out) <= g.topK {
		return out
	}
	kept := slices.Clone(out[:g.topK])
	for _, c := range out[g.topK:] {
		if c.Alone() {
			kept = append(kept, c)
		}
	}
	// Both halves are already sorted and the tail only holds worse
	// candidates, so kept stays sorted.
	return kept
}
