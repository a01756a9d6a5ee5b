package simmetric

import "github.com/framelattice/tracklink/word"

// SubstringLevenshtein runs Levenshtein while tracking the longest common
// substring length L, then discounts the edit count by floor(L*Weight)
// before normalizing (spec §4.2): similarity = 1 - max(0, edits -
// floor(L*w))/max(|a|,|b|). A long unbroken common run (a shared surname
// stem, say) earns back some of the edit cost an unrelated substitution
// would otherwise incur.
type SubstringLevenshtein struct {
	// Weight scales the longest-common-substring bonus. Configured via
	// trackcfg.DistanceMetricConfig.LVSubstringWeight; defaults to 1.0.
	Weight float64

	lcs *Levenshtein
}

// Distance implements Metric.
func (s *SubstringLevenshtein) Distance(a, b word.Word) float64 {
	if s.lcs == nil {
		s.lcs = &Levenshtein{}
	}
	edits := s.lcs.editDistance(a.Graphemes, b.Graphemes)
	l := longestCommonSubstring(a.Graphemes, b.Graphemes)

	bonus := int(float64(l) * s.Weight)
	discounted := edits - bonus
	if discounted < 0 {
		discounted = 0
	}
	return score(discounted, a.ByteLen(), b.ByteLen())
}

// longestCommonSubstring returns the length of the longest contiguous run
// shared between a and b, via the classic O(|a|·|b|) DP.
func longestCommonSubstring(a, b []word.GraphemeCode) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	return best
}
