package acrostic

import (
	"github.com/matzehuels/acrostic/pkg/clean"
	errs "github.com/matzehuels/acrostic/pkg/errors"
)

// Sentinel is returned by ArrangeString when no layout exists. Normalized
// text never contains an underscore, so no layout can equal it.
const Sentinel = "CANNOT_ASSEMBLE"

// ArrangeString lays text out so the letters of token read down one column.
// It never fails: empty input, a token longer than the word count, and
// infeasible layouts all return Sentinel.
func ArrangeString(text, token string, opts Options) string {
	layout, err := Arrange(text, token, opts)
	if err != nil {
		return Sentinel
	}
	return layout.String()
}

// Arrange normalizes text and token with package clean and lays them out.
func Arrange(text, token string, opts Options) (*Layout, error) {
	return ArrangeWords(clean.Words(text), clean.Letters(token), opts)
}

// ArrangeWords lays out already-normalized words and letters, retrying with
// wider caps until a chain exists or the schedule is exhausted.
//
// Errors carry one of errs.ErrCodeEmptyInput, errs.ErrCodeTokenTooLong,
// errs.ErrCodeInfeasible or errs.ErrCodeInvalidConfig.
func ArrangeWords(words []string, letters []rune, opts Options) (*Layout, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkInput(words, letters); err != nil {
		return nil, err
	}

	in := newInput(words, letters)
	schedule := opts.Schedule()
	attempts := make([]Attempt, 0, len(schedule))

	for _, lineCap := range schedule {
		s := newSolver(in, &opts, lineCap)
		chain, ok := s.best()
		attempts = append(attempts, Attempt{Cap: lineCap, Feasible: ok, States: s.states()})
		opts.Logger.Debug("layout attempt", "cap", lineCap, "feasible", ok, "states", s.states())
		if !ok {
			continue
		}
		layout := render(in, chain, lineCap)
		layout.Attempts = attempts
		return layout, nil
	}

	return nil, errs.New(errs.ErrCodeInfeasible,
		"no contiguous layout spells %q in %d words (caps %v)", string(letters), len(words), schedule)
}

// Alternatives returns the best layout for each feasible start word at the
// first cap where any layout exists, best first. A limit of zero or less
// returns all of them.
func Alternatives(text, token string, opts Options, limit int) ([]*Layout, error) {
	words, letters := clean.Words(text), clean.Letters(token)

	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkInput(words, letters); err != nil {
		return nil, err
	}

	in := newInput(words, letters)
	schedule := opts.Schedule()
	attempts := make([]Attempt, 0, len(schedule))

	for _, lineCap := range schedule {
		s := newSolver(in, &opts, lineCap)
		chains := s.chains()
		attempts = append(attempts, Attempt{Cap: lineCap, Feasible: len(chains) > 0, States: s.states()})
		if len(chains) == 0 {
			continue
		}
		if limit > 0 && len(chains) > limit {
			chains = chains[:limit]
		}
		out := make([]*Layout, len(chains))
		for i, c := range chains {
			out[i] = render(in, c, lineCap)
			out[i].Attempts = attempts
		}
		return out, nil
	}

	return nil, errs.New(errs.ErrCodeInfeasible,
		"no contiguous layout spells %q in %d words (caps %v)", string(letters), len(words), schedule)
}

func checkInput(words []string, letters []rune) error {
	if len(words) == 0 {
		return errs.New(errs.ErrCodeEmptyInput, "lyrics contain no words")
	}
	if len(letters) == 0 {
		return errs.New(errs.ErrCodeEmptyInput, "band name contains no letters")
	}
	if len(letters) > len(words) {
		return errs.New(errs.ErrCodeTokenTooLong,
			"band name has %d letters but lyrics only have %d words", len(letters), len(words))
	}
	return nil
}
