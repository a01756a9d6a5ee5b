package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelattice/tracklink/trackcfg"
)

func f(v float64) *float64 { return &v }

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(trackcfg.RecordScorerConfig{RecordScorer: "nonsense"})
	assert.Error(t, err)
}

func TestAverageIgnoresNilEntries(t *testing.T) {
	s := Average{}
	got := s.Score([]*float64{f(1.0), nil, f(0.5)})
	assert.InDelta(t, 0.75, got, 1e-9)
}

func TestAverageAllNilIsZero(t *testing.T) {
	s := Average{}
	assert.Equal(t, 0.0, s.Score([]*float64{nil, nil}))
}

func TestWeightedAverageBasic(t *testing.T) {
	s := WeightedAverage{Weights: []float64{2, 1}}
	got := s.Score([]*float64{f(1.0), f(0.0)})
	assert.InDelta(t, 2.0/3.0, got, 1e-9)
}

func TestWeightedAverageRejectsLowCoverage(t *testing.T) {
	s := WeightedAverage{Weights: []float64{1, 1, 1}, MinWeightRatio: 0.9}
	got := s.Score([]*float64{f(1.0), nil, nil})
	assert.Equal(t, 0.0, got)
}

func TestWeightedAverageAcceptsSufficientCoverage(t *testing.T) {
	s := WeightedAverage{Weights: []float64{1, 1, 1}, MinWeightRatio: 0.5}
	got := s.Score([]*float64{f(1.0), f(0.5), nil})
	assert.Greater(t, got, 0.0)
}

func TestWeightedQuadraticSquaresNumerator(t *testing.T) {
	s := WeightedAverage{Weights: []float64{1, 1}, quadratic: true}
	got := s.Score([]*float64{f(0.5), f(1.0)})
	assert.InDelta(t, (0.25+1.0)/2.0, got, 1e-9)
}

func TestNewBuildsWeightedQuadraticFromConfig(t *testing.T) {
	ratio := 0.4
	scorer, err := New(trackcfg.RecordScorerConfig{
		RecordScorer:   trackcfg.ScorerWeightedQuadratic,
		Weights:        []float64{1, 1},
		MinWeightRatio: &ratio,
	})
	require.NoError(t, err)

	wq, ok := scorer.(WeightedAverage)
	require.True(t, ok)
	assert.True(t, wq.quadratic)
}
