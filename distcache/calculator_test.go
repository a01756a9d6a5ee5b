package distcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelattice/tracklink/simmetric"
	"github.com/framelattice/tracklink/trackcfg"
	"github.com/framelattice/tracklink/word"
)

func TestGetDistFallsBackToMetricWithoutCaching(t *testing.T) {
	metric, err := simmetric.New(trackcfg.DistanceMetricConfig{Metric: trackcfg.MetricLV})
	require.NoError(t, err)

	calc := NewCalculator(metric, 1000)
	a, b := word.New("ann"), word.New("anna")

	got := calc.GetDist(a, b)
	want := metric.Distance(a, b)
	assert.Equal(t, want, got)
	assert.Equal(t, 0, calc.matrix.Size(), "GetDist must not write to the cache")
}

func TestPrecomputeStoresOnlyPairsMeetingThreshold(t *testing.T) {
	metric, err := simmetric.New(trackcfg.DistanceMetricConfig{Metric: trackcfg.MetricLV})
	require.NoError(t, err)

	calc := NewCalculator(metric, 4)
	colPrev := []word.Word{word.New("ann"), word.New("ann"), word.New("bob")}
	colNext := []word.Word{word.New("ann"), word.New("ann")}

	calc.Precompute(colPrev, colNext)

	// "ann" occurs twice in each column: 2*2=4 >= threshold -> cached.
	_, ok := calc.matrix.Get("ann", "ann")
	assert.True(t, ok)

	// "bob" occurs once against "ann" occurring twice: 1*2=2 < threshold -> not cached.
	_, ok = calc.matrix.Get("bob", "ann")
	assert.False(t, ok)
}

// spy records every Distance call it serves so the test can tell which
// metric instance actually answered a GetDist call.
type spy struct {
	inner simmetric.Metric
	calls int
}

func (s *spy) Distance(a, b word.Word) float64 {
	s.calls++
	return s.inner.Distance(a, b)
}

func TestCloneWithMetricSharesMatrixButNotMetric(t *testing.T) {
	base, err := simmetric.New(trackcfg.DistanceMetricConfig{Metric: trackcfg.MetricLV})
	require.NoError(t, err)

	calc := NewCalculator(base, 4)
	calc.Precompute([]word.Word{word.New("ann"), word.New("ann")}, []word.Word{word.New("ann"), word.New("ann")})
	require.NotZero(t, calc.matrix.Size())

	cloneMetric := &spy{inner: base}
	clone := calc.CloneWithMetric(cloneMetric)

	// A pair precomputed on the original is served from the shared matrix,
	// never reaching the clone's metric.
	clone.GetDist(word.New("ann"), word.New("ann"))
	assert.Zero(t, cloneMetric.calls)

	// A cache miss on the clone is answered by the clone's own metric.
	clone.GetDist(word.New("x"), word.New("y"))
	assert.Equal(t, 1, cloneMetric.calls)
}

func TestClearCacheEmptiesMatrix(t *testing.T) {
	metric, err := simmetric.New(trackcfg.DistanceMetricConfig{Metric: trackcfg.MetricLV})
	require.NoError(t, err)

	calc := NewCalculator(metric, 1)
	calc.Precompute([]word.Word{word.New("a")}, []word.Word{word.New("a")})
	assert.NotZero(t, calc.matrix.Size())

	calc.ClearCache()
	assert.Zero(t, calc.matrix.Size())
}
