package simmetric

import (
	"github.com/antzucaro/matchr"

	"github.com/framelattice/tracklink/word"
)

// DamerauUnrestricted is a supplemented distance metric variant (spec §9
// Open Question (a) territory — not one of the three named metrics, but a
// deterministic, symmetric addition): unrestricted Damerau-Levenshtein
// distance via matchr, normalized the same way as Levenshtein. Useful when
// a tracked field is prone to adjacent-character transpositions beyond
// what substring-aware Levenshtein rewards.
type DamerauUnrestricted struct{}

// Distance implements Metric.
func (DamerauUnrestricted) Distance(a, b word.Word) float64 {
	edits := matchr.DamerauLevenshtein(a.Raw, b.Raw)
	return score(edits, a.ByteLen(), b.ByteLen())
}

// JaroWinkler is a supplemented similarity-based metric variant via matchr,
// well suited to short strings with shared prefixes (given names, surnames).
// Unlike the edit-distance variants it returns a direct similarity rather
// than normalizing an edit count.
type JaroWinkler struct{}

// Distance implements Metric.
func (JaroWinkler) Distance(a, b word.Word) float64 {
	if a.Raw == "" && b.Raw == "" {
		return 1.0
	}
	return matchr.JaroWinkler(a.Raw, b.Raw, false)
}
