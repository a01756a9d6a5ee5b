package distcache

import (
	"github.com/framelattice/tracklink/simmetric"
	"github.com/framelattice/tracklink/telemetry"
	"github.com/framelattice/tracklink/telemetry/metrics"
	"github.com/framelattice/tracklink/word"
)

// Calculator wraps a Matrix and a simmetric.Metric. get_dist checks the
// cache first and falls back to the metric — the cache is filled only by
// Precompute, never by a cache miss (spec §4.3).
type Calculator struct {
	matrix           *Matrix
	metric           simmetric.Metric
	cachingThreshold uint
}

// NewCalculator builds a Calculator around metric, caching pairs whose
// occurrence-count product reaches cachingThreshold during Precompute.
func NewCalculator(metric simmetric.Metric, cachingThreshold uint) *Calculator {
	return &Calculator{
		matrix:           NewMatrix(),
		metric:           metric,
		cachingThreshold: cachingThreshold,
	}
}

// GetDist returns the cached similarity for (w1,w2) if present, otherwise
// computes it via the metric without writing it back to the cache.
func (c *Calculator) GetDist(w1, w2 word.Word) float64 {
	if v, ok := c.matrix.Get(w1.Raw, w2.Raw); ok {
		telemetry.EmitCounter(metrics.DistCacheHitsTotal, 1, nil)
		return v
	}
	telemetry.EmitCounter(metrics.DistCacheMissesTotal, 1, nil)
	return c.metric.Distance(w1, w2)
}

// Precompute is called once per frame transition per field. It builds a
// word->occurrence-count multiset from each column, then computes and
// stores the distance for every pair whose occurrence-count product meets
// cachingThreshold and isn't already cached — caching is only worthwhile
// when the same pair will be scored many times across the resolution step.
func (c *Calculator) Precompute(colPrev, colNext []word.Word) {
	countsPrev := buildMultiset(colPrev)
	countsNext := buildMultiset(colNext)

	precomputed := 0
	for _, e1 := range countsPrev {
		for _, e2 := range countsNext {
			if uint(e1.count*e2.count) < c.cachingThreshold {
				continue
			}
			if _, ok := c.matrix.Get(e1.word.Raw, e2.word.Raw); ok {
				continue
			}
			c.matrix.Set(e1.word.Raw, e2.word.Raw, c.metric.Distance(e1.word, e2.word))
			precomputed++
		}
	}
	telemetry.EmitGauge(metrics.DistCacheEntriesGauge, float64(c.matrix.Size()), nil)
	telemetry.EmitCounter(metrics.DistCachePrecomputedPairs, float64(precomputed), nil)
}

// ClearCache empties the underlying Matrix, invoked at the start of each
// frame transition to bound memory.
func (c *Calculator) ClearCache() {
	c.matrix.Clear()
}

// CloneWithMetric returns a Calculator sharing this Calculator's Matrix but
// scoring cache misses through metric instead of c's own. simmetric.Metric
// implementations keep mutable DP scratch state, so concurrent fan-out over
// several workers must give each worker its own Metric instance; the Matrix
// itself is only read during fan-out (all writes happened in the prior
// single-threaded Precompute call), so it's safe to share unmodified.
func (c *Calculator) CloneWithMetric(metric simmetric.Metric) *Calculator {
	return &Calculator{
		matrix:           c.matrix,
		metric:           metric,
		cachingThreshold: c.cachingThreshold,
	}
}

// wordCount pairs a word with its occurrence count within a column.
type wordCount struct {
	word  word.Word
	count int
}

// buildMultiset collects occurrence counts for a column, keyed by the raw
// string since word.Word itself (holding a slice) is not map-key-safe.
func buildMultiset(col []word.Word) map[string]wordCount {
	counts := make(map[string]wordCount, len(col))
	for _, w := range col {
		e := counts[w.Raw]
		e.word = w
		e.count++
		counts[w.Raw] = e
	}
	return counts
}
