// Package simmetric implements the word distance metrics (spec §4.2): a
// contract `distance(a,b) -> [0,1]`, symmetric, reflexive (`d(a,a)=1`), with
// three DP-based variants plus two matchr-backed enrichment variants
// (damerau_unrestricted, jaro_winkler) configurable through the same
// trackcfg.DistanceMetricKind enum.
package simmetric

import (
	"fmt"

	"github.com/antzucaro/matchr"

	"github.com/framelattice/tracklink/trackcfg"
	"github.com/framelattice/tracklink/trackerr"
	"github.com/framelattice/tracklink/word"
)

// Metric computes a normalized similarity in [0,1] between two words.
// Implementations are stateful only to reuse DP scratch buffers; they hold
// no data across calls and must be safe to call sequentially (not
// concurrently — callers needing parallelism construct one Metric per
// worker, per spec §9's partitioning design note).
type Metric interface {
	Distance(a, b word.Word) float64
}

// New builds the Metric named by cfg.Metric.
func New(cfg trackcfg.DistanceMetricConfig) (Metric, error) {
	switch cfg.Metric {
	case trackcfg.MetricLV:
		return &Levenshtein{}, nil
	case trackcfg.MetricLVOpti:
		return &OptimizedLevenshtein{}, nil
	case trackcfg.MetricLVSubstring:
		weight := 1.0
		if cfg.LVSubstringWeight != nil {
			weight = *cfg.LVSubstringWeight
		}
		return &SubstringLevenshtein{Weight: weight}, nil
	case trackcfg.MetricDamerauUnrestricted:
		return &DamerauUnrestricted{}, nil
	case trackcfg.MetricJaroWinkler:
		return &JaroWinkler{}, nil
	default:
		return nil, trackerr.Configuration("simmetric", fmt.Sprintf("unknown distance metric %q", cfg.Metric))
	}
}

// score turns an edit count into the spec's normalized similarity:
// 1 - edits/max(|a|,|b|), with the 0/0 convention (both empty) scoring 1.
func score(edits, lenA, lenB int) float64 {
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(edits)/float64(maxLen)
}
