package simmetric

import "github.com/framelattice/tracklink/word"

// sentinelCell marks a DP cell whose true value cannot fit an 8-bit count:
// the prefix lengths involved differ by at least 255, so no realistic
// similarity threshold would ever consider that alignment anyway.
const sentinelCell = 255

// OptimizedLevenshtein is the byte-cell variant of Levenshtein (spec §4.2):
// it swaps so a is always the longer word, uses uint8 DP cells instead of
// int (a similarity threshold never cares about edit counts that don't fit
// in a byte), and skips cells whose minimum possible value already exceeds
// sentinelCell rather than computing them. For every pair whose true edit
// distance fits in a byte, the result is identical to Levenshtein.
type OptimizedLevenshtein struct {
	prevRow []uint8
	currRow []uint8
}

// Distance implements Metric.
func (o *OptimizedLevenshtein) Distance(a, b word.Word) float64 {
	edits := o.editDistance(a.Graphemes, b.Graphemes)
	return score(edits, a.ByteLen(), b.ByteLen())
}

func (o *OptimizedLevenshtein) editDistance(a, b []word.GraphemeCode) int {
	// (i) swap so a is the longer word.
	if len(a) < len(b) {
		a, b = b, a
	}
	lenA, lenB := len(a), len(b)

	if cap(o.prevRow) < lenB+1 {
		o.prevRow = make([]uint8, lenB+1)
		o.currRow = make([]uint8, lenB+1)
	}
	prevRow := o.prevRow[:lenB+1]
	currRow := o.currRow[:lenB+1]

	for j := 0; j <= lenB; j++ {
		prevRow[j] = saturate(j)
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = saturate(i)
		for j := 1; j <= lenB; j++ {
			// (iii) lower triangle: a cell this far from the diagonal can
			// only hold the sentinel value, so skip the DP arithmetic.
			if diff(i, j) >= sentinelCell {
				currRow[j] = sentinelCell
				continue
			}

			cost := uint8(1)
			if a[i-1] == b[j-1] {
				cost = 0
			}
			deletion := addSaturating(currRow[j-1], 1)
			insertion := addSaturating(prevRow[j], 1)
			substitution := addSaturating(prevRow[j-1], cost)

			m := deletion
			if insertion < m {
				m = insertion
			}
			if substitution < m {
				m = substitution
			}
			currRow[j] = m
		}
		prevRow, currRow = currRow, prevRow
	}

	return int(prevRow[lenB])
}

func diff(i, j int) int {
	if i > j {
		return i - j
	}
	return j - i
}

func saturate(n int) uint8 {
	if n >= sentinelCell {
		return sentinelCell
	}
	return uint8(n)
}

func addSaturating(v uint8, delta uint8) uint8 {
	if int(v)+int(delta) >= sentinelCell {
		return sentinelCell
	}
	return v + delta
}
