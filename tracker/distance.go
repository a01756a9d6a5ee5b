package tracker

import (
	"sort"

	"github.com/framelattice/tracklink/distcache"
	"github.com/framelattice/tracklink/element"
	"github.com/framelattice/tracklink/word"
)

// elementDistance computes the similarity between a remembered element and
// a frame cell's element, or nil when either side carries no evidence
// (spec §9 Open Question (c): an empty/None side is "no evidence", not a
// zero score).
func elementDistance(calc *distcache.Calculator, mem, cell element.Element) *float64 {
	if mem.IsNone() || cell.IsNone() {
		return nil
	}

	if mw, ok := mem.Word(); ok {
		if cw, ok := cell.Word(); ok {
			v := calc.GetDist(mw, cw)
			return &v
		}
		if cws, ok := cell.Words(); ok {
			v := multiStringsDistance(calc, []word.Word{mw}, cws)
			return &v
		}
	}

	if mws, ok := mem.Words(); ok {
		if cw, ok := cell.Word(); ok {
			v := multiStringsDistance(calc, mws, []word.Word{cw})
			return &v
		}
		if cws, ok := cell.Words(); ok {
			v := multiStringsDistance(calc, mws, cws)
			return &v
		}
	}

	return nil
}

// pairScore is one candidate match in the greedy bipartite pairing below.
type pairScore struct {
	ai, bi int
	score  float64
}

// multiStringsDistance implements the supplemented MultiStrings distance
// (spec §9 Open Question (a)): a deterministic, symmetric greedy max-weight
// bipartite pairing over the cached pairwise distances between each side's
// words, summed and normalized by max(|a|,|b|) — unmatched words on the
// larger side contribute 0.
func multiStringsDistance(calc *distcache.Calculator, a, b []word.Word) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}

	pairs := make([]pairScore, 0, len(a)*len(b))
	for i, wa := range a {
		for j, wb := range b {
			pairs = append(pairs, pairScore{ai: i, bi: j, score: calc.GetDist(wa, wb)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		if pairs[i].ai != pairs[j].ai {
			return pairs[i].ai < pairs[j].ai
		}
		return pairs[i].bi < pairs[j].bi
	})

	usedA := make(map[int]bool, len(a))
	usedB := make(map[int]bool, len(b))
	sum := 0.0
	for _, p := range pairs {
		if usedA[p.ai] || usedB[p.bi] {
			continue
		}
		usedA[p.ai] = true
		usedB[p.bi] = true
		sum += p.score
	}

	return sum / float64(maxLen)
}
