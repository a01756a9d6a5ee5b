package memory

import (
	"github.com/framelattice/tracklink/element"
	"github.com/framelattice/tracklink/simmetric"
	"github.com/framelattice/tracklink/word"
)

// Median recomputes the median string over all accumulated words on every
// match: the word minimizing the sum of normalized distances to the rest,
// using the same metric family the tracker's distance metric is configured
// with. Multi-word elements contribute each of their words individually.
// GetElements returns that single word, wrapped back into an Element.
type Median struct {
	metric simmetric.Metric
	words  []word.Word
	median word.Word
	have   bool
}

// NewMedian builds an empty Median memory driven by metric.
func NewMedian(metric simmetric.Metric) *Median {
	return &Median{metric: metric}
}

// SignalMatchingElement implements Memory.
func (m *Median) SignalMatchingElement(e element.Element) {
	if e.IsNone() {
		return
	}
	if w, ok := e.Word(); ok {
		m.words = append(m.words, w)
	} else if ws, ok := e.Words(); ok {
		m.words = append(m.words, ws...)
	}
	m.recompute()
}

// SignalNoMatchingElement implements Memory.
func (m *Median) SignalNoMatchingElement() {}

// GetElements implements Memory.
func (m *Median) GetElements() []element.Element {
	if !m.have {
		return nil
	}
	return []element.Element{element.NewWord(m.median)}
}

func (m *Median) recompute() {
	if len(m.words) == 0 {
		m.have = false
		return
	}
	if len(m.words) == 1 {
		m.median = m.words[0]
		m.have = true
		return
	}

	bestCost := -1.0
	bestIdx := 0
	for i, candidate := range m.words {
		cost := 0.0
		for j, other := range m.words {
			if i == j {
				continue
			}
			// distance-to-minimize is 1 - similarity.
			cost += 1.0 - m.metric.Distance(candidate, other)
		}
		if bestCost < 0 || cost < bestCost {
			bestCost = cost
			bestIdx = i
		}
	}
	m.median = m.words[bestIdx]
	m.have = true
}
