package memory

import "github.com/framelattice/tracklink/element"

// MostFrequent maintains a hash->count map and returns the element(s) at
// the top count, tracking every element that reached that count rather
// than just the first one seen.
type MostFrequent struct {
	counts   map[string]int
	elements map[string]element.Element
}

// NewMostFrequent builds an empty MostFrequent memory.
func NewMostFrequent() *MostFrequent {
	return &MostFrequent{
		counts:   make(map[string]int),
		elements: make(map[string]element.Element),
	}
}

// SignalMatchingElement implements Memory.
func (m *MostFrequent) SignalMatchingElement(e element.Element) {
	if e.IsNone() {
		return
	}
	key := elementKey(e)
	m.counts[key]++
	m.elements[key] = e
}

// SignalNoMatchingElement implements Memory.
func (m *MostFrequent) SignalNoMatchingElement() {}

// GetElements implements Memory.
func (m *MostFrequent) GetElements() []element.Element {
	top := 0
	for _, c := range m.counts {
		if c > top {
			top = c
		}
	}
	if top == 0 {
		return nil
	}

	var out []element.Element
	for key, c := range m.counts {
		if c == top {
			out = append(out, m.elements[key])
		}
	}
	return out
}
