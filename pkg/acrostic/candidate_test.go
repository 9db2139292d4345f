package acrostic

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/acrostic/pkg/clean"
)

func TestAnchorOffset(t *testing.T) {
	tests := []struct {
		word string
		ch   rune
		want int
		ok   bool
	}{
		{"banana", 'a', 3, true},
		{"abba", 'b', 1, true},
		{"abba", 'a', 0, true},
		{"x", 'x', 0, true},
		{"xyz", 'a', -1, false},
		{"kíndër", 'ë', 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.word+"/"+string(tt.ch), func(t *testing.T) {
			got, ok := anchorOffset([]rune(tt.word), tt.ch)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputLengths(t *testing.T) {
	in := newInput([]string{"zoë", "ab", "c"}, []rune("zac"))

	assert.Equal(t, 3, in.segLen(0, 0))
	assert.Equal(t, 6, in.segLen(0, 1))
	assert.Equal(t, 8, in.segLen(0, 2))
	assert.Equal(t, 4, in.segLen(1, 2))
	assert.Equal(t, 4, in.column(0, 1, 0))
	assert.Equal(t, 7, in.column(0, 2, 0))
	assert.Equal(t, 1, in.column(1, 1, 1))
}

func newTestGenerator(t *testing.T, text, token string, opts Options, lineCap int) *generator {
	t.Helper()
	opts.SetDefaults()
	require.NoError(t, opts.Validate())
	return newGenerator(newInput(clean.Words(text), clean.Letters(token)), &opts, lineCap)
}

func TestCandidatesFirstLetterStartsAtAnchor(t *testing.T) {
	g := newTestGenerator(t, "a a a a a b b b b b c c c c c", "abc", Options{}, 24)

	for pos := 0; pos < 5; pos++ {
		cands := g.candidates(0, pos)
		require.NotEmpty(t, cands)
		for _, c := range cands {
			assert.Equal(t, pos, c.Start)
			assert.Equal(t, pos, c.Anchor, "first line must start with its anchor word")
		}
	}
	assert.Empty(t, g.candidates(0, 5), "no a at word 5")
}

func TestCandidatesLastLetterEndsAtAnchor(t *testing.T) {
	g := newTestGenerator(t, "a a a a a b b b b b c c c c c", "abc", Options{}, 24)

	cands := g.candidates(2, 7)
	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.True(t, c.Alone(), "last line must end on its anchor word: %+v", c)
		assert.LessOrEqual(t, c.Length, 24)
	}
}

func TestCandidatesRespectCap(t *testing.T) {
	text := "a " + "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxx" + " b"
	g := newTestGenerator(t, text, "ab", Options{}, 24)
	assert.Empty(t, g.candidates(1, 1), "the only b sits past the cap")

	g = newTestGenerator(t, text, "ab", Options{}, 32)
	cands := g.candidates(1, 1)
	require.Len(t, cands, 1)
	assert.Equal(t, Candidate{Start: 1, End: 2, Anchor: 2, Offset: 0, Column: 31, Length: 32, Score: 31 - 15.5}, cands[0])
	assert.Equal(t, Score(31, 32, 8, 32), cands[0].Score, "lines are scored against the cap in force")
}

func TestCandidatesSorted(t *testing.T) {
	g := newTestGenerator(t, "Sometimes under the sun and the sea", "tus", Options{}, 24)

	cands := g.candidates(1, 1)
	require.NotEmpty(t, cands)
	assert.True(t, slices.IsSortedFunc(cands, compareCandidates))
}

func TestPruneKeepsAnchorAloneCandidates(t *testing.T) {
	g := newTestGenerator(t, "a a a a a b b b b b c c c c c", "abc", Options{TopK: 1}, 24)

	all := g.enumerate(1, 5)
	kept := g.candidates(1, 5)
	require.Greater(t, len(all), len(kept))

	assert.Equal(t, g.prune(slices.Clone(all))[0], kept[0])
	extra := 0
	for _, c := range kept[1:] {
		assert.True(t, c.Alone(), "only anchor-alone candidates survive past top k")
		extra++
	}
	for _, c := range all {
		if c.Alone() {
			assert.Contains(t, kept, c)
		}
	}
	assert.Equal(t, len(kept)-1, extra)
}
