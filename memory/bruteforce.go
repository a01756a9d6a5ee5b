package memory

import "github.com/framelattice/tracklink/element"

// BruteForce appends every non-None matched element and returns all of
// them. Highest recall, highest cost per score call.
type BruteForce struct {
	elements []element.Element
}

// NewBruteForce builds an empty BruteForce memory.
func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

// SignalMatchingElement implements Memory.
func (b *BruteForce) SignalMatchingElement(e element.Element) {
	if e.IsNone() {
		return
	}
	b.elements = append(b.elements, e)
}

// SignalNoMatchingElement implements Memory.
func (b *BruteForce) SignalNoMatchingElement() {}

// GetElements implements Memory.
func (b *BruteForce) GetElements() []element.Element {
	return b.elements
}
