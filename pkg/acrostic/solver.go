package acrostic

import (
	"cmp"
	"slices"
)

// Chain is a complete layout attempt: one candidate per letter, each line
// starting right after the previous one ends.
type Chain struct {
	Candidates []Candidate `json:"candidates"`
	Cost       float64     `json:"cost"`
}

// Start returns the first word covered by the chain.
func (c Chain) Start() int {
	return c.Candidates[0].Start
}

// End returns the last word covered by the chain.
func (c Chain) End() int {
	return c.Candidates[len(c.Candidates)-1].End
}

// Span returns the number of words covered by the chain minus one.
func (c Chain) Span() int {
	return c.End() - c.Start()
}

// Attempt records one pass of the optimizer at a given cap.
type Attempt struct {
	Cap      int  `json:"cap"`
	Feasible bool `json:"feasible"`
	States   int  `json:"states"` // memo entries evaluated
}

// =============================================================================
// Solver - Memoized DP over (letter index, start word)
// =============================================================================

// entry is one cell of the memo table: the best completion of letters
// [i, m) starting at a given word.
type entry struct {
	done bool
	ok   bool
	cost float64
	end  int // last word of the completion
	next int // index into the state's candidates
}

// solver runs the optimizer for a single cap. It owns its memo table and
// candidate cache; a new solver is created for every cap.
type solver struct {
	in    *input
	gen   *generator
	table []entry
	width int // words + 1, the row width of the table
}

func newSolver(in *input, opts *Options, lineCap int) *solver {
	width := len(in.words) + 1
	return &solver{
		in:    in,
		gen:   newGenerator(in, opts, lineCap),
		table: make([]entry, len(in.letters)*width),
		width: width,
	}
}

// solve returns the best completion of letters [i, m) from word pos.
func (s *solver) solve(i, pos int) entry {
	if i == len(s.in.letters) {
		return entry{done: true, ok: true, end: pos - 1, next: -1}
	}
	idx := i*s.width + pos
	if e := s.table[idx]; e.done {
		return e
	}

	best := entry{done: true, next: -1}
	cands := s.gen.candidates(i, pos)
	for k, c := range cands {
		rest := s.solve(i+1, c.End+1)
		if !rest.ok {
			continue
		}
		e := entry{done: true, ok: true, cost: c.Score + rest.cost, end: rest.end, next: k}
		if !best.ok || s.less(e, best, cands) {
			best = e
		}
	}
	s.table[idx] = best
	return best
}

// less orders two completions of the same state: lower cost, then smaller
// span, then the earlier first line end, then the earlier anchor.
func (s *solver) less(a, b entry, cands []Candidate) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.end != b.end {
		return a.end < b.end
	}
	ca, cb := cands[a.next], cands[b.next]
	if ca.End != cb.End {
		return ca.End < cb.End
	}
	return ca.Anchor < cb.Anchor
}

// chain rebuilds the chain starting at word pos. The state must be feasible.
func (s *solver) chain(pos int) Chain {
	m := len(s.in.letters)
	out := Chain{Candidates: make([]Candidate, 0, m)}
	out.Cost = s.solve(0, pos).cost
	for i := 0; i < m; i++ {
		e := s.solve(i, pos)
		c := s.gen.candidates(i, pos)[e.next]
		out.Candidates = append(out.Candidates, c)
		pos = c.End + 1
	}
	return out
}

// chains returns the best chain for every feasible start word, ordered by
// cost, then span, then start word.
func (s *solver) chains() []Chain {
	first := s.in.letters[0]
	var out []Chain
	for p, word := range s.in.runes {
		if !slices.Contains(word, first) {
			continue
		}
		if !s.solve(0, p).ok {
			continue
		}
		out = append(out, s.chain(p))
	}
	slices.SortStableFunc(out, compareChains)
	return out
}

// best returns the globally best chain, if any.
func (s *solver) best() (Chain, bool) {
	all := s.chains()
	if len(all) == 0 {
		return Chain{}, false
	}
	return all[0], true
}

// states counts the memo entries evaluated so far.
func (s *solver) states() int {
	n := 0
	for _, e := range s.table {
		if e.done {
			n++
		}
	}
	return n
}

func compareChains(a, b Chain) int {
	if c := cmp.Compare(a.Cost, b.Cost); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Span(), b.Span()); c != 0 {
		return c
	}
	return cmp.Compare(a.Start(), b.Start())
}
