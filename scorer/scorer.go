// Package scorer implements the record scorer variants (spec §4.5): each
// folds a record's per-field similarity vector into one score in [0,1].
// A field contributes nil when that field carried no evidence (spec §9
// Open Question (c) — an empty tracker memory is "no evidence", not zero).
package scorer

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/framelattice/tracklink/trackcfg"
	"github.com/framelattice/tracklink/trackerr"
)

// RecordScorer aggregates a per-field similarity vector into a single
// record score. A nil entry means the field had no evidence on this
// comparison.
type RecordScorer interface {
	Score(fields []*float64) float64
}

// New builds the RecordScorer named by cfg.RecordScorer.
func New(cfg trackcfg.RecordScorerConfig) (RecordScorer, error) {
	switch cfg.RecordScorer {
	case trackcfg.ScorerAverage:
		return Average{}, nil
	case trackcfg.ScorerWeightedAverage:
		ratio := 0.0
		if cfg.MinWeightRatio != nil {
			ratio = *cfg.MinWeightRatio
		}
		return WeightedAverage{Weights: cfg.Weights, MinWeightRatio: ratio, quadratic: false}, nil
	case trackcfg.ScorerWeightedQuadratic:
		ratio := 0.0
		if cfg.MinWeightRatio != nil {
			ratio = *cfg.MinWeightRatio
		}
		return WeightedAverage{Weights: cfg.Weights, MinWeightRatio: ratio, quadratic: true}, nil
	default:
		return nil, trackerr.Configuration("scorer", fmt.Sprintf("unknown record_scorer %q", cfg.RecordScorer))
	}
}

// Average is the arithmetic mean over non-nil entries; 0 if all are nil.
type Average struct{}

// Score implements RecordScorer.
func (Average) Score(fields []*float64) float64 {
	present := make([]float64, 0, len(fields))
	for _, f := range fields {
		if f != nil {
			present = append(present, *f)
		}
	}
	if len(present) == 0 {
		return 0
	}
	return floats.Sum(present) / float64(len(present))
}

// WeightedAverage computes Σwᵢ·sᵢ/Σwᵢ over present fields (or Σwᵢ·sᵢ²/Σwᵢ
// when quadratic is set, giving WeightedQuadratic). A present-weight ratio
// Σwᵢ(present)/Σwᵢ below MinWeightRatio yields a 0 score — insufficient
// evidence.
type WeightedAverage struct {
	Weights        []float64
	MinWeightRatio float64
	quadratic      bool
}

// Score implements RecordScorer.
func (w WeightedAverage) Score(fields []*float64) float64 {
	totalWeight := floats.Sum(w.Weights)
	if totalWeight <= 0 {
		return 0
	}

	numerator := 0.0
	presentWeight := 0.0
	for i, f := range fields {
		if f == nil || i >= len(w.Weights) {
			continue
		}
		s := *f
		if w.quadratic {
			s *= s
		}
		numerator += w.Weights[i] * s
		presentWeight += w.Weights[i]
	}

	if presentWeight == 0 {
		return 0
	}
	if presentWeight/totalWeight < w.MinWeightRatio {
		return 0
	}
	return numerator / presentWeight
}
