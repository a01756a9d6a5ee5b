package simmetric

import "github.com/framelattice/tracklink/word"

// Levenshtein is the classical edit-distance DP run over grapheme-code
// sequences rather than raw runes, so multi-byte clusters compare in one
// step (spec §4.2). Normalized by the byte length of raw, matching the
// source's convention.
type Levenshtein struct {
	prevRow []int
	currRow []int
}

// Distance implements Metric.
func (l *Levenshtein) Distance(a, b word.Word) float64 {
	edits := l.editDistance(a.Graphemes, b.Graphemes)
	return score(edits, a.ByteLen(), b.ByteLen())
}

func (l *Levenshtein) editDistance(a, b []word.GraphemeCode) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	lenA, lenB := len(a), len(b)

	if cap(l.prevRow) < lenA+1 {
		l.prevRow = make([]int, lenA+1)
		l.currRow = make([]int, lenA+1)
	}
	prevRow := l.prevRow[:lenA+1]
	currRow := l.currRow[:lenA+1]

	for i := 0; i <= lenA; i++ {
		prevRow[i] = i
	}

	for j := 1; j <= lenB; j++ {
		currRow[0] = j
		for i := 1; i <= lenA; i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			deletion := currRow[i-1] + 1
			insertion := prevRow[i] + 1
			substitution := prevRow[i-1] + cost

			m := deletion
			if insertion < m {
				m = insertion
			}
			if substitution < m {
				m = substitution
			}
			currRow[i] = m
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[lenA]
}
