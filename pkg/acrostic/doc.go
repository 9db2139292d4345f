// Package acrostic lays lyrics out as a vertical acrostic.
//
// Given a sequence of normalized words (see package clean) and a sequence of
// target letters, the synthesizer picks one line per letter so that reading
// the designated letter of each line top to bottom spells the band name.
// "Sometimes under the sun" with the band name "tus" becomes:
//
//	someTimes
//	    Under
//	the Sun
//
// # Constraints
//
// A layout is a chain of candidates, one per letter, where:
//
//   - The lines cover one contiguous span of words with nothing skipped or
//     repeated: each line starts right after the previous one ends.
//   - Anchor words appear in strictly increasing word order.
//   - The first line starts with its anchor word and the last line ends with
//     its anchor word.
//   - Every anchor sits in the same column after left padding.
//
// # Algorithm
//
// The work is split into four parts:
//
//  1. Candidate generation: for a letter index i and a start word pos, each
//     word j ≥ pos containing the letter yields an "anchor-alone" candidate
//     ending at j, and (except for the last letter) a few longer candidates
//     extended until the line reaches [Options.MinLineChars]. Candidates are
//     pruned to the best [Options.TopK] by score while every anchor-alone
//     candidate is kept, so pruning never removes the only feasible ending.
//  2. Scoring: [Score] penalizes the distance between the anchor and the
//     line center, lines shorter than the minimum, and (twice as heavily)
//     lines longer than the maximum.
//  3. Optimization: a memoized dynamic program over (letter index, start
//     word) chains candidates end to end, minimizing the total score. Every
//     word containing the first letter is tried as the start.
//  4. Rendering: the winning chain is joined into lines, the anchor letter
//     is uppercased on a copy of its word, and lines are left-padded so the
//     anchors align.
//
// Every line is also bounded by a hard cap. The optimizer first runs with
// the cap equal to [Options.MaxLineChars]; if no chain exists it retries with
// the next, wider cap from [Options.Schedule]. Each attempt owns a fresh memo
// table, since candidates depend on the cap.
//
// Without pruning the cost is O(m·n²) candidate generation over O(m·n)
// states; pruning bounds the branching factor by TopK plus the number of
// anchor words within the cap. Pruning is a heuristic: it can discard a
// globally optimal chain in favor of locally better lines. The result is a
// visually balanced layout, not a proven optimum.
//
// # Tie-breaking
//
// Chains with equal total score are ordered deterministically: smaller span
// first, then the chain whose first line ends earlier, then the lower anchor
// word, and across start words the lower start word.
//
// # Usage
//
//	layout, err := acrostic.Arrange(lyrics, "cebi", acrostic.Options{})
//	if err != nil {
//	    // errors.ErrCodeEmptyInput, ErrCodeTokenTooLong or ErrCodeInfeasible
//	}
//	fmt.Println(layout)
//
//	// Or the total string form, which never fails:
//	fmt.Println(acrostic.ArrangeString(lyrics, "cebi", acrostic.Options{}))
package acrostic
