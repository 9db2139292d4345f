package acrostic

import "math"

// Score rates a line whose anchor sits at anchorColumn (0-based, in runes)
// within a line of lineLength runes. Lower is better; zero means the anchor
// is exactly centered and the length is within [minLen, maxLen].
//
// Lines shorter than minLen cost one point per missing rune; lines longer
// than maxLen cost two points per extra rune.
func Score(anchorColumn, lineLength, minLen, maxLen int) float64 {
	center := 0.0
	if lineLength > 0 {
		center = float64(lineLength-1) / 2
	}
	penalty := math.Abs(float64(anchorColumn) - center)
	if lineLength < minLen {
		penalty += float64(minLen - lineLength)
	}
	if lineLength > maxLen {
		penalty += 2 * float64(lineLength-maxLen)
	}
	return penalty
}
