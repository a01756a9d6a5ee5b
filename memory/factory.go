package memory

import (
	"fmt"

	"github.com/framelattice/tracklink/simmetric"
	"github.com/framelattice/tracklink/trackcfg"
	"github.com/framelattice/tracklink/trackerr"
)

// New builds the Memory variant named by strategy. Median and the
// LongShortTerm compositions need a metric to recompute the median string.
func New(strategy trackcfg.MemoryStrategy, metric simmetric.Metric) (Memory, error) {
	switch strategy {
	case trackcfg.MemoryBruteForce:
		return NewBruteForce(), nil
	case trackcfg.MemoryMostFrequent:
		return NewMostFrequent(), nil
	case trackcfg.MemoryMedian:
		return NewMedian(metric), nil
	case trackcfg.MemoryLSBruteForce:
		return NewLongShortTerm(NewBruteForce()), nil
	case trackcfg.MemoryLSMostFrequent:
		return NewLongShortTerm(NewMostFrequent()), nil
	case trackcfg.MemoryLSMedian:
		return NewLongShortTerm(NewMedian(metric)), nil
	default:
		return nil, trackerr.Configuration("memory", fmt.Sprintf("unknown memory_strategy %q", strategy))
	}
}
